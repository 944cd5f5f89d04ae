package merchants

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/feastly-app/feastly-backend/api/responses"
	"github.com/feastly-app/feastly-backend/api/validators"
	merchantsvc "github.com/feastly-app/feastly-backend/internal/merchants"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/logger"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
)

// Nearby lists merchants within a radius of the caller's location.
func Nearby(svc merchantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "merchant service unavailable"))
			return
		}

		lat, lng, err := coordinatesFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		radius, _, err := validators.ParseQueryFloat(r, "radius_m")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		includeInactive, err := validators.ParseQueryBool(r, "include_inactive", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := pageFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, meta, err := svc.NearbyMerchants(r.Context(), merchantsvc.NearbyQuery{
			Latitude:        lat,
			Longitude:       lng,
			RadiusMeters:    radius,
			IncludeInactive: includeInactive,
			Page:            page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newNearbyPage(results, meta))
	}
}

// Deliverable lists merchants whose delivery radius covers the caller's
// location.
func Deliverable(svc merchantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "merchant service unavailable"))
			return
		}

		lat, lng, err := coordinatesFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := pageFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, meta, err := svc.DeliverableMerchants(r.Context(), merchantsvc.DeliverableQuery{
			Latitude:  lat,
			Longitude: lng,
			Page:      page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newNearbyPage(results, meta))
	}
}

// Delivers answers whether one merchant covers the caller's location.
func Delivers(svc merchantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "merchant service unavailable"))
			return
		}

		merchantID, err := uuid.Parse(chi.URLParam(r, "merchantId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid merchant id"))
			return
		}

		lat, lng, err := coordinatesFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		check, err := svc.CanDeliver(r.Context(), merchantID, lat, lng)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newDeliveryCheck(check))
	}
}

func coordinatesFromQuery(r *http.Request) (float64, float64, error) {
	lat, err := validators.RequireQueryFloat(r, "lat")
	if err != nil {
		return 0, 0, err
	}
	lng, err := validators.RequireQueryFloat(r, "lng")
	if err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}

func pageFromQuery(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Limit: limit, Offset: offset}, nil
}
