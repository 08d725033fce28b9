package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
	chimw "github.com/go-chi/chi/middleware"
	"github.com/ukydev/tracklive/internal/middleware"
)

// Router builds the full API surface under the /api prefix.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/location", a.SaveLocation)
		r.Get("/location", a.ListLocations)
		r.Get("/location/imeis", a.ListImeis)

		r.Get("/devices", a.ListDevices)
		r.Get("/devices/{imei}", a.GetDevice)
		r.Get("/devices/{imei}/locations", a.ListDeviceLocations)
		r.Get("/devices/{imei}/config", a.GetDeviceConfig)
		r.Get("/devices/imei/{imei}/config", a.GetDeviceConfig)
		r.Post("/devices/{imei}/config", a.SetDeviceConfig)
		r.Delete("/devices/{imei}/config", a.DeleteDeviceConfig)

		r.Get("/configs", a.ListDeviceConfigs)
		r.Get("/configs/default", a.GetDefaultConfig)
		r.Put("/configs/default", a.UpdateDefaultConfig)
	})

	return r
}
