package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alquilerfacil/rentas_backend/config"
	"github.com/alquilerfacil/rentas_backend/models"
	"github.com/alquilerfacil/rentas_backend/pdf"
	"github.com/alquilerfacil/rentas_backend/utils"
)

func declarationFor(data *models.PeriodTaxData, generatedAt time.Time) pdf.Declaration {
	incomes := make([]pdf.IncomeLine, 0, len(data.Incomes))
	for _, in := range data.Incomes {
		includes := in.IncludesIVA != nil && *in.IncludesIVA
		incomes = append(incomes, pdf.IncomeLine{
			Description: in.Description,
			Amount:      in.Amount,
			IncludesIVA: includes,
		})
	}
	expenses := make([]pdf.ExpenseLine, 0, len(data.Expenses))
	for _, ex := range data.Expenses {
		expenses = append(expenses, pdf.ExpenseLine{
			Issuer:      ex.Issuer,
			Description: ex.Description,
			TotalAmount: ex.TotalAmount,
			IVAAmount:   ex.IVAAmount,
		})
	}
	return pdf.Declaration{
		Year:        data.Period.Year,
		Month:       data.Period.Month,
		GeneratedAt: generatedAt,
		Summary:     data.Summary,
		Incomes:     incomes,
		Expenses:    expenses,
	}
}

func generateDeclarationHandler() gin.HandlerFunc {
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

		data, err := models.GetPeriodTaxData(ctx, period)
		if err != nil {
			respondModelError(c, err)
			return
		}

		generatedAt := time.Now().UTC()
		fileBytes, fileName, err := pdf.RenderDeclaration(declarationFor(data, generatedAt))
		if err != nil {
			config.LogError(logger, "handlers_declarations", "generateDeclarationHandler", "render pdf", period.Key(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render declaration"})
			return
		}

		objectKey := ""
		if utils.StorageConfigured() {
			objectKey = fmt.Sprintf("declarations/%d/%s/%s.pdf", userId, period.Key(), uuid.NewString())
			if err := utils.UploadBytesToGCS(ctx, objectKey, fileBytes, "application/pdf"); err != nil {
				// The declaration can still be re-rendered on download.
				config.LogError(logger, "handlers_declarations", "generateDeclarationHandler", "store pdf", objectKey, err)
				objectKey = ""
			}
		}

		record, err := models.UpsertDeclaration(ctx, period, fileName, objectKey, generatedAt)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusCreated, record)
	}
}

func listDeclarationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := models.ListDeclarations(c.Request.Context())
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

func downloadDeclarationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		period, ok := periodFromPath(c)
		if !ok {
			return
		}

		record, err := models.GetDeclaration(ctx, period)
		if err != nil {
			respondModelError(c, err)
			return
		}

		var fileBytes []byte
		if record.ObjectKey != "" && utils.StorageConfigured() {
			data, _, err := utils.ReadBytesFromGCS(ctx, record.ObjectKey)
			if err != nil {
				config.LogError(config.GetLogger(), "handlers_declarations", "downloadDeclarationHandler", "read stored pdf", record.ObjectKey, err)
			} else {
				fileBytes = data
			}
		}
		if fileBytes == nil {
			// No stored copy: re-render from the current records with the
			// recorded generation time.
			data, err := models.GetPeriodTaxData(ctx, period)
			if err != nil {
				respondModelError(c, err)
				return
			}
			fileBytes, _, err = pdf.RenderDeclaration(declarationFor(data, record.GeneratedAt))
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render declaration"})
				return
			}
		}

		c.Header("Content-Disposition", "attachment; filename="+record.FileName)
		c.Data(http.StatusOK, "application/pdf", fileBytes)
	}
}
