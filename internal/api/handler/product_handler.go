package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-system/internal/core/domain"
	"github.com/99minutos/auth-system/internal/core/ports"
)

type ProductHandler struct {
	productService ports.ProductService
}

func NewProductHandler(productService ports.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// The length limit lives in the service, which measures the trimmed name.
type createProductRequest struct {
	Name string `json:"name" validate:"required"`
}

// List returns the caller's products.
//
// @Summary      List my products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Product
// @Failure      401  {object}  api.ErrorResponse
// @Failure      502  {object}  api.ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context, userID int64) error {
	products, err := h.productService.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Create adds a product owned by the caller.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product"
// @Success      201   {object}  domain.Product
// @Failure      400   {object}  api.ErrorResponse
// @Failure      401   {object}  api.ErrorResponse
// @Failure      502   {object}  api.ErrorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context, userID int64) error {
	var req createProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.productService.Create(c.Request().Context(), userID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

// Get returns one of the caller's products.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      502  {object}  api.ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context, userID int64) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return domain.ErrProductNotFound
	}

	product, err := h.productService.Get(c.Request().Context(), userID, productID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}
