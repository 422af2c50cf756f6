package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/strandsoft/wcomp/internal/common"
	"github.com/strandsoft/wcomp/internal/pipeline"
	"github.com/strandsoft/wcomp/internal/storage"
)

var allowedExtensions = map[string]struct{}{
	".csv":  {},
	".xlsx": {},
	".xls":  {},
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	fileType := c.DefaultPostForm("type", "asr")
	if fileType != "asr" && fileType != "armorpro" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type"})
		return
	}

	name := filepath.Base(file.Filename)
	if _, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%v, allowed: CSV, XLSX, XLS", common.ErrUnsupportedType)})
		return
	}

	uploadDir, err := s.sessionDir("uploads", s.session(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	savedName := fmt.Sprintf("%s_%s", fileType, name)
	dest := filepath.Join(uploadDir, savedName)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.logger.Info("file uploaded",
		"filename", savedName,
		"size", file.Size,
		"type", fileType)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"filename":      savedName,
		"original_name": file.Filename,
		"size":          file.Size,
		"type":          fileType,
	})
}

type processRequest struct {
	PayPeriod     string `json:"pay_period"`
	ASRFile       string `json:"asr_file"`
	ArmorProFile  string `json:"armorpro_file"`
	WithSubtotals *bool  `json:"subtotals"`
}

type stepResult struct {
	Step    int    `json:"step"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type fileResult struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (s *Server) handleProcess(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ASRFile == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ASR report is required"})
		return
	}
	if req.PayPeriod == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pay period is required"})
		return
	}
	if _, err := time.Parse("20060102", req.PayPeriod); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pay period format, use YYYYMMDD"})
		return
	}

	id := s.session(c)
	uploadDir, err := s.sessionDir("uploads", id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	outputDir, err := s.sessionDir("output", id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	primaryPath := filepath.Join(uploadDir, filepath.Base(req.ASRFile))
	if _, err := os.Stat(primaryPath); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ASR file not found"})
		return
	}

	secondaryPath := ""
	if req.ArmorProFile != "" {
		p := filepath.Join(uploadDir, filepath.Base(req.ArmorProFile))
		if _, err := os.Stat(p); err == nil {
			secondaryPath = p
		}
	}

	subtotals := true
	if req.WithSubtotals != nil {
		subtotals = *req.WithSubtotals
	}

	audit, err := storage.NewStore(filepath.Join(outputDir, "audit.db"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer func() {
		_ = audit.Close()
	}()

	result, err := pipeline.New(s.logger, audit).Run(c.Request.Context(), pipeline.RunOptions{
		PrimaryPath:   primaryPath,
		SecondaryPath: secondaryPath,
		OutputDir:     outputDir,
		PayPeriod:     req.PayPeriod,
		Subtotals:     subtotals,
		Template:      s.templateConfig(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	steps := []stepResult{
		{Step: 1, Name: "Loading ASR Report", Status: "complete"},
	}
	files := []fileResult{
		{Name: filepath.Base(result.Primary.OutputPath), Type: "csv"},
	}

	if result.Secondary != nil {
		steps = append(steps,
			stepResult{Step: 2, Name: "Loading ArmorPro Report", Status: "complete"},
			stepResult{Step: 3, Name: "Combining Reports", Status: "complete"})
		files = append(files,
			fileResult{Name: filepath.Base(result.Secondary.OutputPath), Type: "csv"},
			fileResult{Name: filepath.Base(result.CombinedPath), Type: "csv"})
	} else {
		steps = append(steps,
			stepResult{Step: 2, Name: "ArmorPro Report", Status: "skipped"},
			stepResult{Step: 3, Name: "Combining Reports", Status: "skipped"})
	}

	steps = append(steps,
		stepResult{Step: 4, Name: "Processing Data", Status: "complete"},
		stepResult{Step: 5, Name: "Generating Summary Workbook", Status: "complete"})
	files = append(files, fileResult{Name: filepath.Base(result.Export.OutputPath), Type: "xlsx"})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": gin.H{
			"steps": steps,
			"files": files,
			"summary": gin.H{
				"regular_wages":    result.Export.Totals.Regular.Round(2).InexactFloat64(),
				"overtime_wages":   result.Export.Totals.Overtime.Round(2).InexactFloat64(),
				"doubletime_wages": result.Export.Totals.Doubletime.Round(2).InexactFloat64(),
				"grand_total":      result.Export.Totals.GrandTotal.Round(2).InexactFloat64(),
				"record_count":     result.Export.Totals.RecordCount,
				"source_total":     result.Export.SourceTotal.Round(2).InexactFloat64(),
			},
		},
	})
}

func (s *Server) handleDownload(c *gin.Context) {
	outputDir, err := s.sessionDir("output", s.session(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	name := filepath.Base(c.Param("filename"))
	path := filepath.Join(outputDir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	c.FileAttachment(path, name)
}

func (s *Server) handleRuns(c *gin.Context) {
	outputDir, err := s.sessionDir("output", s.session(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	dbPath := filepath.Join(outputDir, "audit.db")
	if _, err := os.Stat(dbPath); err != nil {
		c.JSON(http.StatusOK, gin.H{"runs": []storage.Run{}})
		return
	}

	audit, err := storage.NewStore(dbPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer func() {
		_ = audit.Close()
	}()

	runs, err := audit.ListRuns(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []storage.Run{}
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleCleanup(c *gin.Context) {
	id, err := c.Cookie(sessionCookie)
	if err != nil || id == "" {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	if _, err := uuid.Parse(id); err != nil {
		c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	for _, kind := range []string{"uploads", "output"} {
		dir := filepath.Join(s.config.BaseDir, kind, id)
		if err := os.RemoveAll(dir); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
