package api

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"kakeibo/internal/ledger"
	"kakeibo/internal/logging"
	"kakeibo/internal/parsererror"
	"kakeibo/internal/store"
)

type handler struct {
	importer Importer
	ledger   Ledger
	logger   logging.Logger
}

// fail maps err onto a status code and a JSON error body.
func (h *handler) fail(c *fiber.Ctx, err error) error {
	var readErr *parsererror.FileReadError
	switch {
	case errors.As(err, &readErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to read file"})
	case parsererror.IsRejection(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, store.ErrReadOnly):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	h.logger.WithError(err).Error("Request failed",
		logging.F("method", c.Method()),
		logging.F("path", c.Path()))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func (h *handler) upload(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no file selected"})
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".csv") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "please select a CSV file"})
	}

	src, err := file.Open()
	if err != nil {
		return h.fail(c, &parsererror.FileReadError{Source: file.Filename, Err: err})
	}
	defer func() {
		_ = src.Close()
	}()

	result, err := h.importer.Upload(c.UserContext(), owner, src)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(result)
}

func (h *handler) autoAssign(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	result, err := h.importer.AutoAssign(c.UserContext(), owner)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(result)
}

func (h *handler) listTransactions(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	txs, err := h.ledger.ListTransactions(c.UserContext(), owner, c.Query("month"), c.Query("category_id"))
	if err != nil {
		return h.fail(c, err)
	}
	if txs == nil {
		return c.JSON([]struct{}{})
	}
	return c.JSON(txs)
}

func (h *handler) deleteTransaction(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	if err := h.ledger.DeleteTransaction(c.UserContext(), owner, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *handler) listCategories(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	categories, err := h.ledger.ListCategories(c.UserContext(), owner, c.Query("type"))
	if err != nil {
		return h.fail(c, err)
	}
	if categories == nil {
		return c.JSON([]struct{}{})
	}
	return c.JSON(categories)
}

func (h *handler) createCategory(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var in ledger.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	created, err := h.ledger.CreateCategory(c.UserContext(), owner, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *handler) updateCategory(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var patch ledger.CategoryPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	updated, err := h.ledger.UpdateCategory(c.UserContext(), owner, c.Params("id"), patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(updated)
}

func (h *handler) deleteCategory(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	if err := h.ledger.DeleteCategory(c.UserContext(), owner, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
