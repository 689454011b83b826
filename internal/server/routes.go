package server

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)

	api := s.echo.Group("/api")

	api.POST("/analyze", s.handleAnalyze)
	api.POST("/analyze/batch", s.handleAnalyzeBatch)
	api.POST("/compare", s.handleCompare)
	api.POST("/export", s.handleExportAnalysis)

	api.GET("/samples", s.handleSamples)
	api.POST("/samples/analyze", s.handleAnalyzeSample)

	api.GET("/history", s.handleHistory)
	api.POST("/history", s.handleSaveHistory)
	api.DELETE("/history", s.handleClearHistory)
	api.POST("/history/import", s.handleImportHistory)
	api.GET("/history/export", s.handleExportHistory)
}
