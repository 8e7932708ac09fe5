package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset := util.ParseIntDefault(c.QueryParam("offset"), 0)

	items, err := h.Svc.ListProducts(ctx, c.QueryParam("category"), limit, offset)
	if err != nil {
		return fail(c, l, "list_products_error", err, "商品の取得中にエラーが発生しました")
	}
	return ok(c, http.StatusOK, items, "")
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset := util.ParseIntDefault(c.QueryParam("offset"), 0)

	items, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), limit, offset)
	if err != nil {
		return fail(c, l, "search_products_error", err, "商品の検索中にエラーが発生しました")
	}
	return ok(c, http.StatusOK, items, "")
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	product, err := h.Svc.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return fail(c, l, "get_product_error", err, "商品の取得中にエラーが発生しました")
	}
	return ok(c, http.StatusOK, product, "")
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "create_product_error", err)
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(c, l, "create_product_error", err, "商品の作成中にエラーが発生しました")
	}

	l.Info("create_product_success", "product_id", product.ID)
	return ok(c, http.StatusCreated, product, "商品が正常に作成されました")
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "update_product_error", err)
	}

	product, err := h.Svc.UpdateProduct(ctx, c.Param("id"), req)
	if err != nil {
		return fail(c, l, "update_product_error", err, "商品の更新中にエラーが発生しました")
	}

	l.Info("update_product_success", "product_id", product.ID)
	return ok(c, http.StatusOK, product, "商品が正常に更新されました")
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id := c.Param("id")
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(c, l, "delete_product_error", err, "商品の削除中にエラーが発生しました")
	}

	l.Info("delete_product_success", "product_id", id)
	return ok(c, http.StatusOK, nil, "商品が正常に削除されました")
}
