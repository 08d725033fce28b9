package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/ukydev/tracklive/internal/db"
	"github.com/ukydev/tracklive/internal/ingest"
	"github.com/ukydev/tracklive/internal/models"
)

// SaveLocation ingests one telemetry sample. Device auto-provisioning
// happens inside the ingestion service; a device-link failure never fails
// the request.
func (a *API) SaveLocation(w http.ResponseWriter, r *http.Request) {
	payload, err := ingest.Decode(r.Body)
	if err != nil {
		a.fail(w, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}

	saved, err := a.Ingest.Ingest(r.Context(), payload)
	if err != nil {
		var verr *ingest.ValidationError
		if errors.As(err, &verr) {
			a.fail(w, http.StatusBadRequest, verr.Message, nil)
			return
		}
		a.fail(w, http.StatusInternalServerError, "Failed to save location data", err)
		return
	}

	a.writeJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: "Location data saved successfully",
		Data:    saved,
	})
}

type historyFilters struct {
	Imei      *string `json:"imei"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

type historyData struct {
	Locations []models.LocationData `json:"locations"`
	Devices   []models.Device       `json:"devices"`
	Filters   historyFilters        `json:"filters"`
}

// ListLocations serves the filtered, paginated location history together
// with the device list the original dashboard expects.
func (a *API) ListLocations(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)
	q := r.URL.Query()

	filter := db.LocationFilter{Imei: q.Get("imei")}
	filters := historyFilters{}
	if filter.Imei != "" {
		filters.Imei = &filter.Imei
	}

	if v := q.Get("startDate"); v != "" {
		start, err := parseDate(v)
		if err != nil {
			a.fail(w, http.StatusBadRequest, "Invalid startDate, expected YYYY-MM-DD", err)
			return
		}
		filter.Start = &start
		filters.StartDate = &v
	}
	if v := q.Get("endDate"); v != "" {
		end, err := parseDate(v)
		if err != nil {
			a.fail(w, http.StatusBadRequest, "Invalid endDate, expected YYYY-MM-DD", err)
			return
		}
		// Inclusive through the whole calendar day.
		end = end.Add(24*time.Hour - time.Millisecond)
		filter.End = &end
		filters.EndDate = &v
	}

	locations, err := a.Store.Locations.Find(r.Context(), filter, limit, offset)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to fetch location data", err)
		return
	}
	total, err := a.Store.Locations.Count(r.Context(), filter)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to fetch location data", err)
		return
	}
	devices, err := a.Store.Devices.FindAll(r.Context(), 0, 0)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to fetch location data", err)
		return
	}

	a.writeJSON(w, http.StatusOK, Envelope{
		Success:    true,
		Data:       historyData{Locations: locations, Devices: devices, Filters: filters},
		Pagination: NewPagination(limit, offset, total, len(locations)),
	})
}

// ListImeis returns the distinct IMEIs present in location data, for filter
// dropdowns.
func (a *API) ListImeis(w http.ResponseWriter, r *http.Request) {
	imeis, err := a.Store.Locations.DistinctImeis(r.Context())
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to fetch IMEIs", err)
		return
	}
	a.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: imeis})
}

// ListDevices serves the paginated device list with per-device sample
// counts.
func (a *API) ListDevices(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)

	devices, err := a.Store.Devices.FindAll(r.Context(), limit, offset)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to fetch devices", err)
		return
	}
	total, err := a.Store.Devices.Count(r.Context())
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to fetch devices", err)
		return
	}

	a.writeJSON(w, http.StatusOK, Envelope{
		Success:    true,
		Data:       devices,
		Pagination: NewPagination(limit, offset, total, len(devices)),
	})
}

type deviceDetail struct {
	*models.Device
	LocationData  []models.LocationData `json:"locationData"`
	LocationCount int64                 `json:"locationCount"`
}

// GetDevice returns one device with its last 10 samples.
func (a *API) GetDevice(w http.ResponseWriter, r *http.Request) {
	imei := chi.URLParam(r, "imei")

	device, err := a.Store.Devices.FindByImei(r.Context(), imei)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			a.fail(w, http.StatusNotFound, "Device not found", nil)
			return
		}
		a.fail(w, http.StatusInternalServerError, "Failed to fetch device", err)
		return
	}

	filter := db.LocationFilter{DeviceID: &device.ID}
	samples, err := a.Store.Locations.Find(r.Context(), filter, 10, 0)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to fetch device", err)
		return
	}
	count, err := a.Store.Locations.Count(r.Context(), filter)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to fetch device", err)
		return
	}

	a.writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    deviceDetail{Device: device, LocationData: samples, LocationCount: count},
	})
}

// ListDeviceLocations serves the paginated sample history for one device.
func (a *API) ListDeviceLocations(w http.ResponseWriter, r *http.Request) {
	imei := chi.URLParam(r, "imei")
	limit, offset := parsePage(r)

	device, err := a.Store.Devices.FindByImei(r.Context(), imei)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			a.fail(w, http.StatusNotFound, "Device not found", nil)
			return
		}
		a.fail(w, http.StatusInternalServerError, "Failed to fetch location data for device", err)
		return
	}

	filter := db.LocationFilter{DeviceID: &device.ID}
	samples, err := a.Store.Locations.Find(r.Context(), filter, limit, offset)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to fetch location data for device", err)
		return
	}
	total, err := a.Store.Locations.Count(r.Context(), filter)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to fetch location data for device", err)
		return
	}

	for i := range samples {
		samples[i].Device = device
	}

	a.writeJSON(w, http.StatusOK, Envelope{
		Success:    true,
		Data:       samples,
		Pagination: NewPagination(limit, offset, total, len(samples)),
	})
}

// parseDate accepts a plain calendar day or an RFC 3339 timestamp, in UTC.
func parseDate(v string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", v, time.UTC); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}
