package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lunaselene/solace/internal/services"
)

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	sess := currentSession(c)
	if sess.Guest {
		return c.JSON(services.ExportSummary{})
	}

	summary, err := handler.export.BuildSummary(sess.UserID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not build export")
	}
	return c.JSON(summary)
}

// ExportJSON streams the full local snapshot, sensitive fields included.
// This is the data-portability path and never touches the cloud mirror.
func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	sess := currentSession(c)
	if sess.Guest {
		return c.JSON(services.ExportSnapshot{})
	}

	snapshot, err := handler.export.BuildSnapshot(sess.UserID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not build export")
	}

	c.Set(fiber.HeaderContentDisposition, exportAttachment("json"))
	return c.JSON(snapshot)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	sess := currentSession(c)
	if sess.Guest {
		return apiError(c, fiber.StatusForbidden, "sign in to export")
	}

	rows, err := handler.export.BuildCSVRows(sess.UserID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not build export")
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not build export")
	}
	for _, row := range rows {
		if err := writer.Write(row.Columns()); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "could not build export")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not build export")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, exportAttachment("csv"))
	return c.Send(output.Bytes())
}

func exportAttachment(extension string) string {
	return fmt.Sprintf(`attachment; filename="solace-export-%s.%s"`, time.Now().Format("2006-01-02"), extension)
}
