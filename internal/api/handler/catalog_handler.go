package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studorg/counter-system/internal/core/domain"
	"github.com/studorg/counter-system/internal/core/ports"
)

// CatalogHandler handles HTTP requests for reference data: products, product
// types and counters.
type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CreateProduct handles POST /v1/products.
//
// @Summary      Add a product to the catalog
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product details"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/products [post]
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Code:        req.Code,
		TypeID:      req.TypeID,
		ClubID:      req.ClubID,
		ParentID:    req.ParentID,
	}
	var err error
	if input.PurchasePrice, err = parseMoney("purchase_price", req.PurchasePrice); err != nil {
		return err
	}
	if input.SellingPrice, err = parseMoney("selling_price", req.SellingPrice); err != nil {
		return err
	}
	if input.SpecialSellingPrice, err = parseMoney("special_selling_price", req.SpecialSellingPrice); err != nil {
		return err
	}

	product, err := h.catalog.CreateProduct(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toProductResponse(product))
}

// ListProducts handles GET /v1/products.
//
// @Summary      List catalog products
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        include_archived  query     bool  false  "Include archived products"
// @Success      200               {array}   productResponse
// @Router       /v1/products [get]
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	includeArchived := c.QueryParam("include_archived") == "true"

	products, err := h.catalog.ListProducts(c.Request().Context(), includeArchived)
	if err != nil {
		return err
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return c.JSON(http.StatusOK, out)
}

// ArchiveProduct handles DELETE /v1/products/:id. Products referenced by past
// sales are archived rather than removed, so the transaction log stays whole.
//
// @Summary      Archive a product
// @Tags         catalog
// @Security     BearerAuth
// @Param        id  path  string  true  "Product ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /v1/products/{id} [delete]
func (h *CatalogHandler) ArchiveProduct(c echo.Context) error {
	if err := h.catalog.ArchiveProduct(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateProductType handles POST /v1/product-types.
//
// @Summary      Add a product type
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductTypeRequest  true  "Product type details"
// @Success      201   {object}  domain.ProductType
// @Failure      400   {object}  map[string]string
// @Router       /v1/product-types [post]
func (h *CatalogHandler) CreateProductType(c echo.Context) error {
	var req createProductTypeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	t, err := h.catalog.CreateProductType(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

// ListProductTypes handles GET /v1/product-types.
//
// @Summary      List product types
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.ProductType
// @Router       /v1/product-types [get]
func (h *CatalogHandler) ListProductTypes(c echo.Context) error {
	types, err := h.catalog.ListProductTypes(c.Request().Context())
	if err != nil {
		return err
	}
	if types == nil {
		types = []*domain.ProductType{}
	}
	return c.JSON(http.StatusOK, types)
}

// CreateCounter handles POST /v1/counters.
//
// @Summary      Create a point of sale
// @Tags         counters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCounterRequest  true  "Counter details"
// @Success      201   {object}  counterResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/counters [post]
func (h *CatalogHandler) CreateCounter(c echo.Context) error {
	var req createCounterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	counter, err := h.catalog.CreateCounter(c.Request().Context(), ports.CreateCounterInput{
		Name:       req.Name,
		ClubID:     req.ClubID,
		Kind:       req.Kind,
		ProductIDs: req.ProductIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCounterResponse(counter))
}

// ListCounters handles GET /v1/counters.
//
// @Summary      List counters
// @Tags         counters
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  counterResponse
// @Router       /v1/counters [get]
func (h *CatalogHandler) ListCounters(c echo.Context) error {
	counters, err := h.catalog.ListCounters(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]counterResponse, 0, len(counters))
	for _, counter := range counters {
		out = append(out, toCounterResponse(counter))
	}
	return c.JSON(http.StatusOK, out)
}
