// Package api provides the Lambda request handlers for the products API.
//
// Each handler takes an API Gateway proxy event, runs one catalog operation
// against the store, and renders the outcome as a JSON response. Handlers
// are stateless; every invocation stands alone and all shared state lives
// in the store.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/shelf/internal/cursor"
	"github.com/jacentio/shelf/store"
)

// ProductStore is the catalog surface the handlers need. *store.Store
// satisfies it; tests substitute a mock.
type ProductStore interface {
	GetProduct(ctx context.Context, id string) (store.Product, error)
	CreateProduct(ctx context.Context, body store.Product) (store.Product, error)
	UpdateProduct(ctx context.Context, id string, patch store.Product) (store.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, in store.ListInput) (*store.ListResult, error)
}

// requiredFields must be present and non-empty on create.
var requiredFields = []string{store.AttrName, store.AttrCategory, store.AttrBrand}

// Handler serves the products API.
type Handler struct {
	store  ProductStore
	logger *slog.Logger
}

// NewHandler creates a new request handler.
func NewHandler(s ProductStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  s,
		logger: logger,
	}
}

// listResponse is the body of a successful list call. LastKey is null when
// the traversal is exhausted.
type listResponse struct {
	Items   []store.Product `json:"items"`
	LastKey *string         `json:"lastKey"`
	Count   int             `json:"count"`
}

// HandleList serves GET /products. All query parameters are optional;
// category routes to the category index and shadows brand, brand routes to
// the brand index, and name filters a table scan.
func (h *Handler) HandleList(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := req.QueryStringParameters

	in := store.ListInput{
		Category:     params["category"],
		Brand:        params["brand"],
		NameContains: params["name"],
	}

	if raw := params["limit"]; raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || limit < 1 {
			return clientError(http.StatusBadRequest, codeValidation, "limit must be a positive integer"), nil
		}
		in.Limit = int32(limit)
	}

	if raw := params["lastKey"]; raw != "" {
		key, err := cursor.Decode(raw)
		if err != nil {
			return clientError(http.StatusBadRequest, codeInvalidCursor, "lastKey is not a valid pagination token"), nil
		}
		in.StartKey = key
	}

	res, err := h.store.ListProducts(ctx, in)
	if err != nil {
		h.logger.Error("list products failed", "error", err)
		return serverError(err), nil
	}

	body := listResponse{Items: res.Items, Count: res.Count}
	if body.Items == nil {
		body.Items = []store.Product{}
	}
	if res.LastKey != nil {
		token, err := cursor.Encode(res.LastKey)
		if err != nil {
			h.logger.Error("encode page token failed", "error", err)
			return serverError(err), nil
		}
		body.LastKey = &token
	}

	return respond(http.StatusOK, body), nil
}

// HandleGet serves GET /products/{productId}.
func (h *Handler) HandleGet(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id := req.PathParameters["productId"]
	if id == "" {
		return clientError(http.StatusBadRequest, codeValidation, "productId path parameter is required"), nil
	}

	p, err := h.store.GetProduct(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return notFound(), nil
	case err != nil:
		h.logger.Error("get product failed", "productId", id, "error", err)
		return serverError(err), nil
	}

	return respond(http.StatusOK, p), nil
}

// HandleCreate serves POST /products. The body must supply non-empty name,
// category and brand; every other field, specifications included, passes
// through to the stored item untouched.
func (h *Handler) HandleCreate(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var body store.Product
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		// Unparsable bodies report as server errors; part of the API contract.
		return serverError(err), nil
	}

	var missing []string
	for _, field := range requiredFields {
		if body.Field(field) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return clientError(http.StatusBadRequest, codeValidation,
			"Missing required fields: "+strings.Join(missing, ", ")), nil
	}

	p, err := h.store.CreateProduct(ctx, body)
	if err != nil {
		h.logger.Error("create product failed", "error", err)
		return serverError(err), nil
	}

	return respond(http.StatusCreated, p), nil
}

// HandleUpdate serves PUT /products/{productId}. The body is a partial
// patch; fields it leaves out, or supplies as empty/false/zero, keep their
// stored values.
func (h *Handler) HandleUpdate(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id := req.PathParameters["productId"]
	if id == "" {
		return clientError(http.StatusBadRequest, codeValidation, "productId path parameter is required"), nil
	}

	var patch store.Product
	if err := json.Unmarshal([]byte(req.Body), &patch); err != nil {
		return serverError(err), nil
	}

	p, err := h.store.UpdateProduct(ctx, id, patch)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return notFound(), nil
	case err != nil:
		h.logger.Error("update product failed", "productId", id, "error", err)
		return serverError(err), nil
	}

	return respond(http.StatusOK, p), nil
}

// HandleDelete serves DELETE /products/{productId}. Deleting an id that no
// longer exists reports 404, including when a concurrent request got there
// first.
func (h *Handler) HandleDelete(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id := req.PathParameters["productId"]
	if id == "" {
		return clientError(http.StatusBadRequest, codeValidation, "productId path parameter is required"), nil
	}

	err := h.store.DeleteProduct(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return notFound(), nil
	case err != nil:
		h.logger.Error("delete product failed", "productId", id, "error", err)
		return serverError(err), nil
	}

	return noContent(), nil
}
