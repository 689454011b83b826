package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/sentidash/internal/dashboard"
	"github.com/spacesedan/sentidash/internal/models"
	"github.com/spacesedan/sentidash/internal/sentiment"
)

type textRequest struct {
	Text string `json:"text"`
}

func bindText(c echo.Context) (string, error) {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return req.Text, nil
}

func (s *Server) handleAnalyze(c echo.Context) error {
	text, err := bindText(c)
	if err != nil {
		return err
	}

	analysis, err := s.service.Analyze(c.Request().Context(), text)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleAnalyzeBatch(c echo.Context) error {
	text, err := bindText(c)
	if err != nil {
		return err
	}

	results, err := s.service.AnalyzeBatch(c.Request().Context(), text)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, results)
}

func (s *Server) handleCompare(c echo.Context) error {
	text, err := bindText(c)
	if err != nil {
		return err
	}

	comparison, err := s.service.Compare(c.Request().Context(), text)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, comparison)
}

func (s *Server) handleSamples(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"samples": s.service.Samples()})
}

func (s *Server) handleAnalyzeSample(c echo.Context) error {
	analysis, err := s.service.AnalyzeSample(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleHistory(c echo.Context) error {
	entries, err := s.service.History(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) handleSaveHistory(c echo.Context) error {
	var analysis models.Analysis
	if err := c.Bind(&analysis); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid analysis body")
	}

	entry, err := s.service.SaveToHistory(c.Request().Context(), analysis)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleClearHistory(c echo.Context) error {
	if err := s.service.ClearHistory(c.Request().Context()); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleImportHistory(c echo.Context) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}

	n, err := s.service.ImportHistory(c.Request().Context(), data)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"imported": n})
}

func (s *Server) handleExportHistory(c echo.Context) error {
	export, err := s.service.ExportHistory(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return attachment(c, export)
}

func (s *Server) handleExportAnalysis(c echo.Context) error {
	var analysis models.Analysis
	if err := c.Bind(&analysis); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid analysis body")
	}

	export, err := s.service.ExportAnalysis(analysis)
	if err != nil {
		return toHTTPError(err)
	}
	return attachment(c, export)
}

func attachment(c echo.Context, export models.Export) error {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.Filename))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, export.Data)
}

// toHTTPError maps domain errors to client errors; anything else is logged
// and reported as a 500.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, sentiment.ErrEmptyInput),
		errors.Is(err, dashboard.ErrEmptyBatch),
		errors.Is(err, dashboard.ErrInvalidEntry):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, dashboard.ErrNoHistory):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		slog.Error("[HTTP] Request failed", slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
