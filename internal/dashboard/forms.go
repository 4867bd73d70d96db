package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/pricewatch/pricewatch/internal/catalog"
	"github.com/pricewatch/pricewatch/internal/notify"
)

// FormResult reports the outcome of a submission. When OK is false the
// submitted values are returned so the form can be shown again as entered.
type FormResult struct {
	OK     bool
	Values url.Values
	Errors map[string]string
}

// Entity names a form's record type in user-facing messages.
type Entity struct {
	Singular   string
	Title      string
	Collection string
}

// FormController handles submissions for one entity type: parse, validate,
// create through the API, then reload the affected collections.
type FormController[T any] struct {
	entity   Entity
	parse    func(url.Values) (T, map[string]string)
	create   func(context.Context, T) error
	reload   func(context.Context) error
	stats    func(context.Context) error
	validate *validator.Validate
	notes    notify.Center
	logger   *slog.Logger
}

// Submit processes one submission. Messages for the user are pushed to the
// notification center under key.
func (c *FormController[T]) Submit(ctx context.Context, key string, fields url.Values) FormResult {
	record, errs := c.parse(fields)
	if len(errs) == 0 {
		errs = fieldErrors(c.validate.Struct(record))
	}
	if len(errs) > 0 {
		c.push(ctx, key, notify.SeverityError, "Error adding "+c.entity.Singular)
		return FormResult{Values: fields, Errors: errs}
	}

	if err := c.create(ctx, record); err != nil {
		c.logger.Error("create "+c.entity.Singular, slog.Any("error", err))
		c.push(ctx, key, notify.SeverityError, "Error adding "+c.entity.Singular)
		return FormResult{Values: fields, Errors: map[string]string{"general": "Error adding " + c.entity.Singular}}
	}

	c.push(ctx, key, notify.SeveritySuccess, c.entity.Title+" added successfully!")
	c.refresh(ctx, key)
	return FormResult{OK: true}
}

// refresh reloads the entity's collection and the dashboard counters once
// each, concurrently.
func (c *FormController[T]) refresh(ctx context.Context, key string) {
	var g errgroup.Group
	g.Go(func() error {
		if err := c.reload(ctx); err != nil {
			c.logger.Error("reload after create", slog.String("collection", c.entity.Collection), slog.Any("error", err))
			c.push(ctx, key, notify.SeverityError, "Error loading "+c.entity.Collection)
		}
		return nil
	})
	g.Go(func() error {
		if err := c.stats(ctx); err != nil {
			c.logger.Warn("reload stats after create", slog.Any("error", err))
		}
		return nil
	})
	_ = g.Wait()
}

func (c *FormController[T]) push(ctx context.Context, key string, severity notify.Severity, text string) {
	if _, err := c.notes.Push(ctx, key, severity, text); err != nil {
		c.logger.Warn("push notification", slog.Any("error", err))
	}
}

// Forms groups the three entity controllers.
type Forms struct {
	Suppliers *FormController[catalog.SupplierInput]
	Products  *FormController[catalog.ProductInput]
	Prices    *FormController[catalog.PriceInput]
}

// NewForms wires the entity controllers to the API and loader.
func NewForms(api API, loader *Loader, notes notify.Center, logger *slog.Logger) *Forms {
	v := catalog.NewValidator()
	return &Forms{
		Suppliers: &FormController[catalog.SupplierInput]{
			entity: Entity{Singular: "supplier", Title: "Supplier", Collection: "suppliers"},
			parse:  parseSupplier,
			create: func(ctx context.Context, in catalog.SupplierInput) error {
				_, err := api.CreateSupplier(ctx, in)
				return err
			},
			reload:   loader.ReloadSuppliers,
			stats:    loader.ReloadStats,
			validate: v,
			notes:    notes,
			logger:   logger,
		},
		Products: &FormController[catalog.ProductInput]{
			entity: Entity{Singular: "product", Title: "Product", Collection: "products"},
			parse:  parseProduct,
			create: func(ctx context.Context, in catalog.ProductInput) error {
				_, err := api.CreateProduct(ctx, in)
				return err
			},
			reload:   loader.ReloadProducts,
			stats:    loader.ReloadStats,
			validate: v,
			notes:    notes,
			logger:   logger,
		},
		Prices: &FormController[catalog.PriceInput]{
			entity: Entity{Singular: "price", Title: "Price", Collection: "prices"},
			parse:  parsePrice,
			create: func(ctx context.Context, in catalog.PriceInput) error {
				_, err := api.CreatePrice(ctx, in)
				return err
			},
			reload:   loader.ReloadPrices,
			stats:    loader.ReloadStats,
			validate: v,
			notes:    notes,
			logger:   logger,
		},
	}
}

func field(values url.Values, name string) string {
	return strings.TrimSpace(values.Get(name))
}

func parseSupplier(values url.Values) (catalog.SupplierInput, map[string]string) {
	return catalog.SupplierInput{
		Name:     field(values, "name"),
		Contact:  field(values, "contact"),
		Location: field(values, "location"),
	}, nil
}

func parseProduct(values url.Values) (catalog.ProductInput, map[string]string) {
	return catalog.ProductInput{
		Name:     field(values, "name"),
		Category: field(values, "category"),
		Unit:     field(values, "unit"),
	}, nil
}

func parsePrice(values url.Values) (catalog.PriceInput, map[string]string) {
	var in catalog.PriceInput
	errs := map[string]string{}

	supplierID, err := strconv.ParseInt(field(values, "supplier_id"), 10, 64)
	if err != nil || supplierID <= 0 {
		errs["supplier_id"] = "Select a supplier"
	}
	productID, err := strconv.ParseInt(field(values, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		errs["product_id"] = "Select a product"
	}
	price, err := decimal.NewFromString(field(values, "price"))
	if err != nil {
		errs["price"] = "Enter a numeric price"
	}

	in.SupplierID = supplierID
	in.ProductID = productID
	in.Price = price
	in.Notes = field(values, "notes")
	return in, errs
}

// fieldErrors maps validation failures to messages keyed by form field.
func fieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"general": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "This field is required"
		case "gt", "price_positive":
			out[fe.Field()] = "Must be greater than zero"
		case "price_range":
			out[fe.Field()] = "Must be between " + catalog.MinPrice.StringFixed(2) + " and " + catalog.MaxPrice.StringFixed(0)
		case "max":
			out[fe.Field()] = "Must be at most " + fe.Param() + " characters"
		default:
			out[fe.Field()] = "Invalid value"
		}
	}
	return out
}
