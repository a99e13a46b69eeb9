package main

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alquilerfacil/rentas_backend/config"
	"github.com/alquilerfacil/rentas_backend/einvoice"
	"github.com/alquilerfacil/rentas_backend/models"
	"github.com/alquilerfacil/rentas_backend/models/reports"
	"github.com/alquilerfacil/rentas_backend/utils"
)

const (
	maxUploadFiles    = 10
	maxUploadFileSize = 2 << 20 // per file
)

func periodFromPath(c *gin.Context) (models.Period, bool) {
	period, err := models.ParsePeriod(c.Param("year"), c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Period{}, false
	}
	return period, true
}

func idFromPath(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func respondModelError(c *gin.Context, err error) {
	switch err {
	case utils.ErrorNotRecordOwner:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case utils.ErrorRecordNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func getTaxDataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		period, ok := periodFromPath(c)
		if !ok {
			return
		}

		data, err := models.GetPeriodTaxData(c.Request.Context(), period)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
	}
}

func createIncomeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		period, ok := periodFromPath(c)
		if !ok {
			return
		}
		var input models.NewIncomeRecord
		if !bindJSON(c, &input) {
			return
		}

		record, err := models.CreateIncomeRecord(c.Request.Context(), period, &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, record)
	}
}

func deleteIncomeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idFromPath(c)
		if !ok {
			return
		}

		record, err := models.DeleteIncomeRecord(c.Request.Context(), id)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": record.ID})
	}
}

func uploadExpensesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		logger := config.GetLogger()

		period, ok := periodFromPath(c)
		if !ok {
			return
		}
		userId, ok := utils.GetUserIdFromContext(ctx)
		if !ok || userId == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user id is required"})
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
			return
		}
		fileHeaders := form.File["invoices"]
		if len(fileHeaders) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no invoice files provided"})
			return
		}
		if len(fileHeaders) > maxUploadFiles {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d files per upload", maxUploadFiles)})
			return
		}

		var files []einvoice.File
		var failures []einvoice.Failure
		for _, fh := range fileHeaders {
			if fh.Size > maxUploadFileSize {
				failures = append(failures, einvoice.Failure{FileName: fh.Filename, Reason: "file too large"})
				continue
			}
			src, err := fh.Open()
			if err != nil {
				failures = append(failures, einvoice.Failure{FileName: fh.Filename, Reason: "unreadable file"})
				continue
			}
			data, err := io.ReadAll(src)
			src.Close()
			if err != nil {
				failures = append(failures, einvoice.Failure{FileName: fh.Filename, Reason: "unreadable file"})
				continue
			}
			files = append(files, einvoice.File{Name: fh.Filename, Data: data})
		}

		result := einvoice.NormalizeBatch(files, decimal.Zero)
		failures = append(failures, result.Failures...)

		dataByName := make(map[string][]byte, len(files))
		for _, f := range files {
			dataByName[f.Name] = f.Data
		}

		added := make([]*models.ExpenseInvoice, 0, len(result.Records))
		for _, rec := range result.Records {
			objectKey := ""
			if utils.StorageConfigured() {
				objectKey = fmt.Sprintf("invoices/%d/%s/%s.xml", userId, period.Key(), uuid.NewString())
				if err := utils.UploadBytesToGCS(ctx, objectKey, dataByName[rec.FileName], "application/xml"); err != nil {
					// Archival is best effort; the expense still counts.
					config.LogError(logger, "handlers_taxdata", "uploadExpensesHandler", "archive invoice", rec.FileName, err)
					objectKey = ""
				}
			}

			expense, err := models.CreateExpenseInvoice(ctx, period, rec, objectKey)
			if err != nil {
				failures = append(failures, einvoice.Failure{FileName: rec.FileName, Reason: "failed to save expense"})
				config.LogError(logger, "handlers_taxdata", "uploadExpensesHandler", "create expense", rec.FileName, err)
				continue
			}
			added = append(added, expense)
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":        fmt.Sprintf("%d de %d facturas procesadas", len(added), len(fileHeaders)),
			"success_count":  len(added),
			"error_count":    len(failures),
			"failures":       failureList(failures),
			"added_expenses": added,
		})
	}
}

type failureResponse struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

func failureList(failures []einvoice.Failure) []failureResponse {
	out := make([]failureResponse, 0, len(failures))
	for _, f := range failures {
		out = append(out, failureResponse{FileName: f.FileName, Reason: f.Reason})
	}
	return out
}

func deleteExpenseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idFromPath(c)
		if !ok {
			return
		}

		expense, err := models.DeleteExpenseInvoice(c.Request.Context(), id)
		if err != nil {
			respondModelError(c, err)
			return
		}
		if expense.ObjectKey != "" && utils.StorageConfigured() {
			if err := utils.DeleteObjectFromGCS(c.Request.Context(), expense.ObjectKey); err != nil {
				config.LogError(config.GetLogger(), "handlers_taxdata", "deleteExpenseHandler", "delete archived invoice", expense.ObjectKey, err)
			}
		}
		c.JSON(http.StatusOK, gin.H{"id": expense.ID})
	}
}

func exportTaxDataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		period, ok := periodFromPath(c)
		if !ok {
			return
		}

		data, filename, err := reports.BuildMonthlyWorkbook(c.Request.Context(), period)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	}
}
