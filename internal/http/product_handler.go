package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/render"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/query"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
)

const imageField = "image"

type productHandler struct {
	logger        *slog.Logger
	productSvc    service.ProductService
	maxUploadSize int64
}

func newProductHandler(logger *slog.Logger, productSvc service.ProductService, maxUploadSize int64) *productHandler {
	return &productHandler{
		logger:        logger,
		productSvc:    productSvc,
		maxUploadSize: maxUploadSize,
	}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params, err := query.ParseParams(r.URL.Query())
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	result, err := h.productSvc.ListProducts(r.Context(), params)
	if err != nil {
		render.Error(w, r, h.logger, fmt.Errorf("product service list products: %w", err))
		return
	}

	render.JSON(w, r, h.logger, http.StatusOK, render.Envelope{
		Success:    true,
		Data:       newProductResponses(result.Products),
		Pagination: &result.Pagination,
	})
}

func (h *productHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	render.OK(w, r, h.logger, http.StatusOK, h.productSvc.ListCategories(r.Context()), "")
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug, err := slugParam(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	product, err := h.productSvc.GetProduct(r.Context(), slug)
	if err != nil {
		render.Error(w, r, h.logger, fmt.Errorf("product service get product: %w", err))
		return
	}

	render.OK(w, r, h.logger, http.StatusOK, newProductResponse(product), "")
}

func (h *productHandler) ListRelatedProducts(w http.ResponseWriter, r *http.Request) {
	slug, err := slugParam(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	products, err := h.productSvc.ListRelatedProducts(r.Context(), slug)
	if err != nil {
		render.Error(w, r, h.logger, fmt.Errorf("product service list related products: %w", err))
		return
	}

	render.OK(w, r, h.logger, http.StatusOK, newProductResponses(products), "")
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var params service.CreateProductParams

	if isMultipart(r) {
		form, err := h.parseMultipart(w, r)
		if err != nil {
			render.Error(w, r, h.logger, err)
			return
		}

		params.Title = strings.TrimSpace(r.FormValue("title"))
		params.Description = strings.TrimSpace(r.FormValue("description"))
		params.Category = model.Category(strings.TrimSpace(r.FormValue("category")))
		params.ImageURL = strings.TrimSpace(r.FormValue(imageField))

		if params.Price, err = formDecimal(form, "price"); err != nil {
			render.Error(w, r, h.logger, err)
			return
		}
		if params.Availability, err = formBool(form, "availability"); err != nil {
			render.Error(w, r, h.logger, err)
			return
		}
		if params.ImageFile, err = formFile(r); err != nil {
			render.Error(w, r, h.logger, err)
			return
		}
	} else if err := h.decodeJSON(w, r, &params); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	product, err := h.productSvc.CreateProduct(r.Context(), params)
	if err != nil {
		render.Error(w, r, h.logger, fmt.Errorf("product service create product: %w", err))
		return
	}

	render.OK(w, r, h.logger, http.StatusCreated, newProductResponse(product), "product created successfully")
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	slug, err := slugParam(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	var params service.UpdateProductParams

	if isMultipart(r) {
		form, err := h.parseMultipart(w, r)
		if err != nil {
			render.Error(w, r, h.logger, err)
			return
		}

		params.Title = formString(form, "title")
		params.Description = formString(form, "description")
		params.ImageURL = formString(form, imageField)
		if category := formString(form, "category"); category != nil {
			c := model.Category(*category)
			params.Category = &c
		}

		if params.Price, err = formDecimal(form, "price"); err != nil {
			render.Error(w, r, h.logger, err)
			return
		}
		if params.Availability, err = formBool(form, "availability"); err != nil {
			render.Error(w, r, h.logger, err)
			return
		}
		if params.ImageFile, err = formFile(r); err != nil {
			render.Error(w, r, h.logger, err)
			return
		}
	} else if err := h.decodeJSON(w, r, &params); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), slug, params)
	if err != nil {
		render.Error(w, r, h.logger, fmt.Errorf("product service update product: %w", err))
		return
	}

	render.OK(w, r, h.logger, http.StatusOK, newProductResponse(product), "product updated successfully")
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	slug, err := slugParam(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	if err := h.productSvc.DeleteProduct(r.Context(), slug); err != nil {
		render.Error(w, r, h.logger, fmt.Errorf("product service delete product: %w", err))
		return
	}

	render.OK(w, r, h.logger, http.StatusOK, nil, "product deleted successfully")
}

func (h *productHandler) parseMultipart(w http.ResponseWriter, r *http.Request) (*multipart.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, err
		}
		return nil, apperr.ValidationErr.WrapParent(err).WithMsg("invalid multipart body")
	}

	return r.MultipartForm, nil
}

func (h *productHandler) decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	return decodeJSON(w, r, h.maxUploadSize, dest)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return apperr.ValidationErr.WrapParent(err).WithMsg("invalid request body")
	}

	return nil
}

func slugParam(r *http.Request) (string, error) {
	var slug string
	err := runtime.BindStyledParameterWithOptions("simple", "slug", chi.URLParam(r, "slug"), &slug,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return "", apperr.ValidationErr.WrapParent(err).WithMsg("invalid slug")
	}

	return slug, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// formString returns nil when the field is absent so partial updates can
// tell "not sent" from "sent".
func formString(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	s := strings.TrimSpace(values[0])
	return &s
}

func formDecimal(form *multipart.Form, key string) (*decimal.Decimal, error) {
	s := formString(form, key)
	if s == nil || *s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, apperr.ValidationErr.WrapParent(err).WithMsg(key + " must be a number")
	}
	return &d, nil
}

func formBool(form *multipart.Form, key string) (*bool, error) {
	s := formString(form, key)
	if s == nil || *s == "" {
		return nil, nil
	}

	b, err := strconv.ParseBool(*s)
	if err != nil {
		return nil, apperr.ValidationErr.WrapParent(err).WithMsg(key + " must be true or false")
	}
	return &b, nil
}

// formFile reads the uploaded image, if any.
func formFile(r *http.Request) ([]byte, error) {
	file, _, err := r.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.ValidationErr.WrapParent(err).WithMsg("invalid image upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read image upload: %w", err)
	}
	return data, nil
}
