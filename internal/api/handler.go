// Package api exposes statement conversion over HTTP.
package api

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/stmt2csv/internal/buildinfo"
	"github.com/cleared-dev/stmt2csv/internal/layout"
	"github.com/cleared-dev/stmt2csv/internal/model"
	"github.com/cleared-dev/stmt2csv/internal/pipeline"
	"github.com/cleared-dev/stmt2csv/internal/reconcile"
	"github.com/cleared-dev/stmt2csv/internal/sink"
)

// maxUpload caps the size of an uploaded statement.
const maxUpload = 32 << 20

// ConvertResponse is the JSON body of /api/convert.
type ConvertResponse struct {
	Success      bool                `json:"success"`
	Error        string              `json:"error,omitempty"`
	Document     string              `json:"document,omitempty"`
	Count        int                 `json:"count"`
	Counts       *reconcile.Counts   `json:"counts,omitempty"`
	Transactions []model.Transaction `json:"transactions"`
}

// Handler serves the conversion API.
type Handler struct {
	Pipeline *pipeline.Pipeline
	Sources  *layout.Registry
	Log      logrus.FieldLogger
}

// NewApp returns a fiber app with the API routes registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             maxUpload,
		DisableStartupMessage: true,
	})
	h.Register(app)
	return app
}

// Register adds the API routes to app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.handleHealth)
	app.Post("/api/convert", h.handleConvert)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (h *Handler) handleConvert(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return h.fail(c, fiber.StatusBadRequest, "", "no file uploaded, use form field 'file'", nil)
	}

	src := h.Sources.ForPath(fh.Filename)
	if src == nil {
		return h.fail(c, fiber.StatusUnsupportedMediaType, fh.Filename, fmt.Sprintf("unsupported file type %q", fh.Filename), nil)
	}

	f, err := fh.Open()
	if err != nil {
		return h.fail(c, fiber.StatusBadRequest, fh.Filename, fmt.Sprintf("opening upload: %v", err), nil)
	}
	defer f.Close()

	frags, err := src.Read(f)
	if err != nil {
		return h.fail(c, fiber.StatusUnprocessableEntity, fh.Filename, err.Error(), nil)
	}
	doc := layout.NewDocument(fh.Filename, frags)

	res, err := h.Pipeline.Run(doc)
	if err != nil {
		var verr reconcile.ValidationError
		var merr reconcile.MalformedAmountError
		if errors.As(err, &verr) || errors.As(err, &merr) {
			var counts *reconcile.Counts
			if res != nil {
				counts = &res.Counts
			}
			return h.fail(c, fiber.StatusUnprocessableEntity, fh.Filename, err.Error(), counts)
		}
		return h.fail(c, fiber.StatusInternalServerError, fh.Filename, err.Error(), nil)
	}

	h.Log.WithFields(logrus.Fields{
		"document": fh.Filename,
		"records":  len(res.Transactions),
	}).Info("converted statement")

	if c.Query("format") == string(sink.FormatCSV) {
		var buf bytes.Buffer
		if err := sink.WriteCSV(&buf, res.Transactions); err != nil {
			return h.fail(c, fiber.StatusInternalServerError, fh.Filename, err.Error(), nil)
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", sink.OutputPath(fh.Filename, ".", sink.FormatCSV)))
		return c.Send(buf.Bytes())
	}

	return c.JSON(ConvertResponse{
		Success:      true,
		Document:     fh.Filename,
		Count:        len(res.Transactions),
		Counts:       &res.Counts,
		Transactions: res.Transactions,
	})
}

func (h *Handler) fail(c *fiber.Ctx, status int, document, msg string, counts *reconcile.Counts) error {
	h.Log.WithFields(logrus.Fields{
		"document": document,
		"status":   status,
	}).Warn(msg)
	return c.Status(status).JSON(ConvertResponse{
		Success:      false,
		Error:        msg,
		Document:     document,
		Counts:       counts,
		Transactions: []model.Transaction{},
	})
}
