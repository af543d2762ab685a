package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

// CatalogHandler serves the public shop pages.
type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListPage handles GET /v1/shop. Out-of-range pages are clamped, never rejected.
//
// @Summary      List one catalog page
// @Tags         shop
// @Produce      json
// @Param        page  query     int  false  "1-based page number"  default(1)
// @Success      200   {object}  catalogPageResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/shop [get]
func (h *CatalogHandler) ListPage(c echo.Context) error {
	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "page must be a number")
		}
		page = n
	}

	result, err := h.catalog.ListPage(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, catalogPageResponse{
		Items:      toItemResponses(result.Items),
		Pagination: result.Page,
	})
}

// Get handles GET /v1/shop/:id.
//
// @Summary      Get a catalog item
// @Tags         shop
// @Produce      json
// @Param        id   path      int  true  "Item id"
// @Success      200  {object}  itemResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/shop/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.catalog.GetItem(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

// ListImages handles GET /v1/shop/:id/images.
//
// @Summary      List an item's images
// @Tags         shop
// @Produce      json
// @Param        id   path      int  true  "Item id"
// @Success      200  {array}   imageResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/shop/{id}/images [get]
func (h *CatalogHandler) ListImages(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	images, err := h.catalog.ListImages(c.Request().Context(), id)
	if err != nil {
		return err
	}
	out := make([]imageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, toImageResponse(img))
	}
	return c.JSON(http.StatusOK, out)
}

// Image handles GET /v1/images/:id and streams the stored bytes.
//
// @Summary      Get image bytes
// @Tags         shop
// @Produce      image/png
// @Produce      image/jpeg
// @Param        id   path      string  true  "Image id"
// @Success      200  {file}    binary
// @Failure      404  {object}  errorResponse
// @Router       /v1/images/{id} [get]
func (h *CatalogHandler) Image(c echo.Context) error {
	img, err := h.catalog.GetImage(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, img.ContentType, img.Data)
}
