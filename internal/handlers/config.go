package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/ukydev/tracklive/internal/configs"
	"github.com/ukydev/tracklive/internal/db"
)

// decodeConfigPayload reads and validates a configuration body against the
// recognized field table before any resolution logic runs.
func (a *API) decodeConfigPayload(w http.ResponseWriter, r *http.Request) (configs.Payload, bool) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		a.fail(w, http.StatusBadRequest, "Invalid JSON payload", err)
		return nil, false
	}
	payload, verr := configs.Validate(raw)
	if verr != nil {
		a.writeJSON(w, http.StatusBadRequest, Envelope{
			Success:     false,
			Message:     verr.Message,
			Errors:      verr.Errors,
			ValidFields: verr.ValidFields,
		})
		return nil, false
	}
	return payload, true
}

// SetDeviceConfig creates or merges the per-device configuration. Creation
// stores only the supplied fields; merging overwrites only truthy values
// (an explicit "0" does not overwrite on this path).
func (a *API) SetDeviceConfig(w http.ResponseWriter, r *http.Request) {
	imei := chi.URLParam(r, "imei")

	device, err := a.Store.Devices.FindByImei(r.Context(), imei)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			a.fail(w, http.StatusNotFound, "Device not found", nil)
			return
		}
		a.fail(w, http.StatusInternalServerError, "Failed to set device configuration", err)
		return
	}

	payload, ok := a.decodeConfigPayload(w, r)
	if !ok {
		return
	}

	existing, err := a.Store.DeviceConfigs.FindByImei(r.Context(), imei)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		a.fail(w, http.StatusInternalServerError, "Failed to set device configuration", err)
		return
	}

	if existing == nil {
		cfg := configs.NewDeviceConfig(imei, payload)
		created, err := a.Store.DeviceConfigs.Insert(r.Context(), cfg)
		switch {
		case err == nil:
			created.Device = device.Summary()
			a.writeJSON(w, http.StatusCreated, Envelope{
				Success: true,
				Message: "Device configuration created successfully",
				Data:    created,
			})
			return
		case errors.Is(err, db.ErrDuplicate):
			// Lost the first-set race on the unique device_imei index. Merge
			// into the winner's record instead of surfacing the collision.
			existing, err = a.Store.DeviceConfigs.FindByImei(r.Context(), imei)
			if err != nil {
				a.fail(w, http.StatusInternalServerError, "Failed to set device configuration", err)
				return
			}
		default:
			a.fail(w, http.StatusInternalServerError, "Failed to set device configuration", err)
			return
		}
	}

	configs.ApplyDeviceMerge(existing, payload)
	updated, err := a.Store.DeviceConfigs.Replace(r.Context(), *existing)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to set device configuration", err)
		return
	}
	updated.Device = device.Summary()
	a.writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Device configuration updated successfully",
		Data:    updated,
	})
}

// GetDeviceConfig returns the configuration owned by one device. It backs
// both lookup paths.
func (a *API) GetDeviceConfig(w http.ResponseWriter, r *http.Request) {
	imei := chi.URLParam(r, "imei")

	device, err := a.Store.Devices.FindByImei(r.Context(), imei)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			a.fail(w, http.StatusNotFound, "Device not found", nil)
			return
		}
		a.fail(w, http.StatusInternalServerError, "Failed to fetch device configuration", err)
		return
	}

	cfg, err := a.Store.DeviceConfigs.FindByImei(r.Context(), imei)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			a.fail(w, http.StatusNotFound, "Configuration not found for this device", nil)
			return
		}
		a.fail(w, http.StatusInternalServerError, "Failed to fetch device configuration", err)
		return
	}

	cfg.Device = device.Summary()
	a.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: cfg})
}

// DeleteDeviceConfig removes a device's configuration record.
func (a *API) DeleteDeviceConfig(w http.ResponseWriter, r *http.Request) {
	imei := chi.URLParam(r, "imei")

	if err := a.Store.DeviceConfigs.Delete(r.Context(), imei); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			a.fail(w, http.StatusNotFound, "Configuration not found for this device", nil)
			return
		}
		a.fail(w, http.StatusInternalServerError, "Failed to delete device configuration", err)
		return
	}

	a.writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Device configuration deleted successfully",
	})
}

// ListDeviceConfigs serves all per-device configurations, most recently
// updated first.
func (a *API) ListDeviceConfigs(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)

	list, err := a.Store.DeviceConfigs.FindAll(r.Context(), limit, offset)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to fetch device configurations", err)
		return
	}
	total, err := a.Store.DeviceConfigs.Count(r.Context())
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to fetch device configurations", err)
		return
	}

	for i := range list {
		device, err := a.Store.Devices.FindByImei(r.Context(), list[i].DeviceImei)
		if err == nil {
			list[i].Device = device.Summary()
		}
	}

	a.writeJSON(w, http.StatusOK, Envelope{
		Success:    true,
		Data:       list,
		Pagination: NewPagination(limit, offset, total, len(list)),
	})
}

// GetDefaultConfig returns the singleton default configuration, seeding it
// with the canonical values on first access.
func (a *API) GetDefaultConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := a.Store.DefaultConfigs.FindOrCreate(r.Context())
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to fetch default configuration", err)
		return
	}
	a.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: cfg})
}

// UpdateDefaultConfig merge-updates the singleton. Presence-based: any
// supplied numeric field overwrites, including an explicit "0".
func (a *API) UpdateDefaultConfig(w http.ResponseWriter, r *http.Request) {
	payload, ok := a.decodeConfigPayload(w, r)
	if !ok {
		return
	}

	cfg, err := a.Store.DefaultConfigs.FindOrCreate(r.Context())
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to update default configuration", err)
		return
	}

	configs.ApplyDefaultMerge(cfg, payload)
	updated, err := a.Store.DefaultConfigs.Update(r.Context(), *cfg)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Failed to update default configuration", err)
		return
	}

	a.writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Default configuration updated successfully",
		Data:    updated,
	})
}
