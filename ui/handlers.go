package ui

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"fretedash/domain/freight"
)

func (s *Server) handleIndex(c *gin.Context) {
	snap := s.store.Snapshot()
	if snap == nil {
		s.renderTemplate(c, "dashboard.html", gin.H{
			"Title":   "Freight Dashboard",
			"Loading": true,
		})
		return
	}

	sessionID := s.sessions.SessionID(c)
	selection := s.sessions.Selection(sessionID)
	view := s.store.View(selection)
	charts := s.aggregator.Charts(view)

	s.renderTemplate(c, "dashboard.html", gin.H{
		"Title":     "Freight Dashboard",
		"Loading":   false,
		"Summary":   charts.Summary,
		"Context":   snap.Context,
		"Domains":   snap.Domains,
		"Selection": selection,
		"Columns":   view.Columns,
		"Rows":      s.displayRows(view),
		"Shown":     s.shownCount(view),
		"Total":     view.Total,
		"Empty":     view.Empty,
		"Warning":   view.Warning,
		"LoadedAt":  snap.LoadedAt.String(),
	})
}

func (s *Server) handleTable(c *gin.Context) {
	view, ok := s.currentView(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"columns": view.Columns,
		"rows":    s.displayRows(view),
		"shown":   s.shownCount(view),
		"total":   view.Total,
		"empty":   view.Empty,
		"warning": view.Warning,
	})
}

func (s *Server) handleFilters(c *gin.Context) {
	snap := s.store.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data not loaded yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"domains": snap.Domains})
}

func (s *Server) handleAggregates(c *gin.Context) {
	view, ok := s.currentView(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.aggregator.Charts(view))
}

func (s *Server) handleContext(c *gin.Context) {
	snap := s.store.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data not loaded yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"context":   snap.Context,
		"loaded_at": snap.LoadedAt.String(),
	})
}

// selectionPayload mirrors freight.FilterSelection for JSON binding.
type selectionPayload struct {
	Values map[string][]string      `json:"values"`
	Ranges map[string]freight.Range `json:"ranges"`
}

func (s *Server) handleSetSelection(c *gin.Context) {
	var payload selectionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid selection payload"})
		return
	}

	selection := freight.NewFilterSelection()
	for col, vals := range payload.Values {
		if len(vals) > 0 {
			selection.Values[col] = vals
		}
	}
	for col, r := range payload.Ranges {
		if r.Min > r.Max {
			c.JSON(http.StatusBadRequest, gin.H{"error": "range min exceeds max for " + col})
			return
		}
		selection.Ranges[col] = r
	}

	sessionID := s.sessions.SessionID(c)
	s.sessions.SetSelection(sessionID, selection)

	view := s.store.View(selection)
	c.JSON(http.StatusOK, gin.H{
		"matched": len(view.Rows),
		"total":   view.Total,
		"empty":   view.Empty,
		"warning": view.Warning,
	})
}

func (s *Server) handleClearSelection(c *gin.Context) {
	sessionID := s.sessions.SessionID(c)
	s.sessions.ClearSelection(sessionID)
	view := s.store.View(freight.NewFilterSelection())
	c.JSON(http.StatusOK, gin.H{"matched": len(view.Rows), "total": view.Total})
}

func (s *Server) handleRefresh(c *gin.Context) {
	if err := s.store.Refresh(c.Request.Context()); err != nil {
		log.Printf("[handleRefresh] Reload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	snap := s.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"rows":      snap.Table.RowCount(),
		"loaded_at": snap.LoadedAt.String(),
	})
}

// currentView resolves the session's filtered view, answering 503 before
// the first load.
func (s *Server) currentView(c *gin.Context) (freight.FilteredView, bool) {
	snap := s.store.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data not loaded yet"})
		return freight.FilteredView{}, false
	}
	sessionID := s.sessions.SessionID(c)
	return s.store.View(s.sessions.Selection(sessionID)), true
}

// displayRows renders view rows as display strings in column order,
// capped for the dashboard table.
func (s *Server) displayRows(view freight.FilteredView) [][]string {
	limit := len(view.Rows)
	if s.tableCap > 0 && limit > s.tableCap {
		limit = s.tableCap
	}
	rows := make([][]string, 0, limit)
	for _, row := range view.Rows[:limit] {
		cells := make([]string, len(view.Columns))
		for i, col := range view.Columns {
			cells[i] = freight.Display(row[col])
		}
		rows = append(rows, cells)
	}
	return rows
}

func (s *Server) shownCount(view freight.FilteredView) int {
	if s.tableCap > 0 && len(view.Rows) > s.tableCap {
		return s.tableCap
	}
	return len(view.Rows)
}
