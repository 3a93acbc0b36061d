// Package item serves the inventory routes. Reads are open to every
// role, single inserts to moderators and admins, bulk sync to admins
// only.
package item

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	authz "github.com/gudangku/gudangku/internal/auth"
	"github.com/gudangku/gudangku/internal/db/controller/item"
	"github.com/gudangku/gudangku/internal/db/models"
	"github.com/gudangku/gudangku/internal/web/handler"
)

// Path is the base path of the inventory routes.
const Path = "/api/barang"

const expiryLayout = "2006-01-02"

var validate = validator.New()

// InsertItemSchema is the payload for storing one inventory item.
type InsertItemSchema struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Price     int     `json:"price" validate:"gte=0"`
	Stock     int     `json:"stock" validate:"gte=0"`
	ExpiredAt *string `json:"expired_at" validate:"omitempty,datetime=2006-01-02"`
}

// SyncSchema is the payload for replacing stock in bulk.
type SyncSchema struct {
	Items []InsertItemSchema `json:"items" validate:"required,min=1,dive"`
}

// ItemDTO is the external representation of an inventory item.
type ItemDTO struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Price     int        `json:"price"`
	Stock     int        `json:"stock"`
	ExpiredAt *time.Time `json:"expired_at"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Service is the inventory handler service.
type Service struct {
	handler.Service
	deps  *handler.Deps
	items *item.Controller
}

// Handler is the inventory handler.
var Handler = Service{}

// Init initializes the inventory handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilADFatalLogMsg)
	}

	s.deps = deps
	s.items = item.New(deps.DB)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath,
			authz.Require(deps.Gate, models.RoleAdmin, models.RoleModerator, models.RoleUser), s.List)
		router.Post(handler.RouterRootPath,
			authz.Require(deps.Gate, models.RoleAdmin, models.RoleModerator), s.Insert)
		router.Post("/sync",
			authz.Require(deps.Gate, models.RoleAdmin), s.Sync)
	})

	return nil
}

// List returns the inventory, optionally filtered by name.
func (s *Service) List(c *fiber.Ctx) error {
	records, err := s.items.List(c.UserContext(), c.Query("name"))
	if err != nil {
		log.Error().Err(err).Msg("failed to list items")

		return handler.Error(c, fiber.StatusBadGateway, "something went wrong")
	}

	dtos := make([]ItemDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, newItemDTO(&records[i]))
	}

	return handler.Success(c, fiber.StatusOK, fiber.Map{
		"barang": dtos,
		"count":  len(dtos),
	})
}

// Insert stores a single new inventory item.
func (s *Service) Insert(c *fiber.Ctx) error {
	var payload InsertItemSchema

	if err := c.BodyParser(&payload); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(&payload); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	record := toModel(&payload)

	if err := s.items.Insert(c.UserContext(), record); err != nil {
		log.Error().Err(err).Msg("failed to insert item")

		return handler.Error(c, fiber.StatusBadGateway, "something went wrong")
	}

	return handler.Success(c, fiber.StatusCreated, fiber.Map{"barang": newItemDTO(record)})
}

// Sync stores a batch of inventory items in one transaction.
func (s *Service) Sync(c *fiber.Ctx) error {
	var payload SyncSchema

	if err := c.BodyParser(&payload); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(&payload); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	records := make([]models.Item, 0, len(payload.Items))
	for i := range payload.Items {
		records = append(records, *toModel(&payload.Items[i]))
	}

	if err := s.items.InsertBatch(c.UserContext(), records); err != nil {
		log.Error().Err(err).Msg("failed to sync items")

		return handler.Error(c, fiber.StatusBadGateway, "something went wrong")
	}

	return handler.Success(c, fiber.StatusCreated, fiber.Map{"count": len(records)})
}

func toModel(payload *InsertItemSchema) *models.Item {
	record := &models.Item{
		ID:    uuid.NewString(),
		Name:  payload.Name,
		Price: payload.Price,
		Stock: payload.Stock,
	}

	if payload.ExpiredAt != nil {
		// The format was already validated with the payload.
		expiredAt, _ := time.Parse(expiryLayout, *payload.ExpiredAt)
		record.ExpiredAt = &expiredAt
	}

	return record
}

func newItemDTO(record *models.Item) ItemDTO {
	return ItemDTO{
		ID:        record.ID,
		Name:      record.Name,
		Price:     record.Price,
		Stock:     record.Stock,
		ExpiredAt: record.ExpiredAt,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
