package controllers

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aditi-rao/supplylens-api/services"
	"github.com/aditi-rao/supplylens-api/utils"
)

// UploadDataset handles POST /api/v1/datasets - the advanced-analysis
// upload path. The file is parsed into a table, classified for charting,
// summarized, kept in the in-memory store for the chart endpoints and
// archived to S3 on a best-effort basis.
func UploadDataset(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A file form field is required",
			},
		})
		return
	}

	if err := utils.ValidateDatasetFile(fileHeader); err != nil {
		var uploadErr *utils.FileUploadError
		code := "INVALID_FILE_FORMAT"
		if errors.As(err, &uploadErr) {
			code = uploadErr.Code
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	table, err := utils.ParseDatasetFile(fileHeader)
	if err != nil {
		utils.Diag(utils.SeverityError, "dataset parse failed for %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROCESSING_FAILURE",
				"message": "Failed to process the uploaded file",
				"details": err.Error(),
			},
		})
		return
	}

	// Best-effort archive: a failed or unconfigured archive never fails the
	// upload cycle.
	archiveKey := ""
	if archive := services.GetArchiveService(); archive != nil {
		if content, readErr := readUpload(fileHeader); readErr == nil {
			key, archiveErr := archive.ArchiveDataset(fileHeader.Filename, content)
			if archiveErr != nil {
				utils.Diag(utils.SeverityWarning, "dataset archive failed for %s: %v", fileHeader.Filename, archiveErr)
			} else {
				archiveKey = key
			}
		} else {
			utils.Diag(utils.SeverityWarning, "dataset archive read failed for %s: %v", fileHeader.Filename, readErr)
		}
	}

	classification := services.ClassifyColumns(table)
	dataset := services.GetDatasetStore().Save(fileHeader.Filename, table, archiveKey)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"dataset_id":     dataset.ID,
			"name":           dataset.Name,
			"row_count":      len(table.Rows),
			"columns":        table.Columns,
			"classification": classification,
			"summary":        services.SummarizeNumericColumns(table, classification.Numeric),
			"archive_key":    archiveKey,
			"uploaded_at":    dataset.UploadedAt,
		},
	})
}

// DatasetHistogram handles GET /api/v1/datasets/:id/histogram - bins a
// numeric column into equal-width buckets for histogram display.
func DatasetHistogram(c *gin.Context) {
	dataset, ok := lookupDataset(c)
	if !ok {
		return
	}

	column := c.Query("column")
	if column == "" {
		respondMissingColumn(c)
		return
	}

	bins := services.DefaultHistogramBins
	if binsParam := c.Query("bins"); binsParam != "" {
		parsed, err := strconv.Atoi(binsParam)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_BINS",
					"message": "bins must be a positive integer",
				},
			})
			return
		}
		bins = parsed
	}

	values, err := services.NumericColumn(dataset.Table, column)
	if err != nil {
		respondColumnError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"column":  column,
			"bins":    bins,
			"buckets": services.Histogram(values, bins),
		},
	})
}

// DatasetFrequency handles GET /api/v1/datasets/:id/frequency - builds a
// value frequency table of a categorical column for bar-chart display.
func DatasetFrequency(c *gin.Context) {
	dataset, ok := lookupDataset(c)
	if !ok {
		return
	}

	column := c.Query("column")
	if column == "" {
		respondMissingColumn(c)
		return
	}

	frequencies, err := services.FrequencyTable(dataset.Table, column)
	if err != nil {
		respondColumnError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"column":      column,
			"frequencies": frequencies,
		},
	})
}

// DatasetArchiveURL handles GET /api/v1/datasets/:id/archive - returns a
// time-limited download link for the archived original file.
func DatasetArchiveURL(c *gin.Context) {
	dataset, ok := lookupDataset(c)
	if !ok {
		return
	}

	archive := services.GetArchiveService()
	if archive == nil || dataset.ArchiveKey == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ARCHIVE_NOT_FOUND",
				"message": "No archived copy of this dataset",
			},
		})
		return
	}

	url, err := archive.GetPresignedURL(dataset.ArchiveKey)
	if err != nil {
		utils.Diag(utils.SeverityError, "archive presign failed for %s: %v", dataset.ArchiveKey, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ARCHIVE_ERROR",
				"message": "Failed to generate a download link",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"dataset_id":   dataset.ID,
			"archive_key":  dataset.ArchiveKey,
			"download_url": url,
		},
	})
}

// DeleteDataset handles DELETE /api/v1/datasets/:id - forgets the uploaded
// dataset and removes its archived copy. A failed archive delete is logged
// but never blocks forgetting the dataset.
func DeleteDataset(c *gin.Context) {
	dataset, ok := lookupDataset(c)
	if !ok {
		return
	}

	if archive := services.GetArchiveService(); archive != nil && dataset.ArchiveKey != "" {
		if err := archive.DeleteArchive(dataset.ArchiveKey); err != nil {
			utils.Diag(utils.SeverityWarning, "archive delete failed for %s: %v", dataset.ArchiveKey, err)
		}
	}

	services.GetDatasetStore().Delete(dataset.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"dataset_id": dataset.ID,
		},
	})
}

func lookupDataset(c *gin.Context) (*services.Dataset, bool) {
	dataset, ok := services.GetDatasetStore().Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATASET_NOT_FOUND",
				"message": "No uploaded dataset with that id",
			},
		})
		return nil, false
	}
	return dataset, true
}

func respondMissingColumn(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "MISSING_COLUMN",
			"message": "A column query parameter is required",
		},
	})
}

func respondColumnError(c *gin.Context, err error) {
	var columnErr *services.ColumnError
	if errors.As(err, &columnErr) {
		status := http.StatusBadRequest
		if columnErr.Code == "UNKNOWN_COLUMN" {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    columnErr.Code,
				"message": columnErr.Message,
			},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Failed to analyze the dataset column",
		},
	})
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			log.Printf("warning: failed to close uploaded file: %v", closeErr)
		}
	}()
	return io.ReadAll(src)
}
