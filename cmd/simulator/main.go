// Simulator posts synthetic GPS tracker reports at the location ingestion
// endpoint. It drives a small fleet of fake devices wandering around seed
// cities, which is enough to exercise auto-provisioning, the history
// queries and the 64-bit time handling end to end.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Location is a simulated device position.
type Location struct {
	Lat float64
	Lon float64
}

// Seed cities for realistic starting points.
var cities = []Location{
	{Lat: 51.5074, Lon: -0.1278},  // London
	{Lat: 40.7128, Lon: -74.0060}, // New York
	{Lat: 31.5204, Lon: 74.3587},  // Lahore
	{Lat: 24.8607, Lon: 67.0011},  // Karachi
	{Lat: 25.2048, Lon: 55.2708},  // Dubai
	{Lat: 41.0082, Lon: 28.9784},  // Istanbul
	{Lat: 1.3521, Lon: 103.8198},  // Singapore
	{Lat: 35.6762, Lon: 139.6503}, // Tokyo
}

func jitterLocation(base Location, meters float64) Location {
	latMetersPerDeg := 111320.0
	lonMetersPerDeg := 111320.0 * math.Cos(base.Lat*math.Pi/180)
	dLat := (rand.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLon := (rand.Float64()*2 - 1) * (meters / lonMetersPerDeg)
	return Location{Lat: base.Lat + dLat, Lon: base.Lon + dLon}
}

// Tracker is one simulated device.
type Tracker struct {
	Imei     string
	Name     string
	Position Location
	SpeedKmh float64
	Bearing  float64
	Ignition int
}

func newTracker(i int) *Tracker {
	base := cities[rand.Intn(len(cities))]
	return &Tracker{
		Imei:     fmt.Sprintf("8656320500268%02d", i),
		Name:     fmt.Sprintf("Tracker Device %d", i+1),
		Position: jitterLocation(base, 500),
		SpeedKmh: 20 + rand.Float64()*60,
		Bearing:  rand.Float64() * 360,
		Ignition: 1,
	}
}

func (t *Tracker) step(tickSec float64) {
	// Drift along the current bearing, with occasional turns and stops.
	if rand.Float64() < 0.1 {
		t.Bearing = math.Mod(t.Bearing+(rand.Float64()*90-45)+360, 360)
	}
	if rand.Float64() < 0.05 {
		t.Ignition = 1 - t.Ignition
	}
	if t.Ignition == 0 {
		t.SpeedKmh = 0
		return
	}
	t.SpeedKmh = math.Max(5, math.Min(110, t.SpeedKmh+(rand.Float64()*20-10)))

	distKm := t.SpeedKmh * tickSec / 3600
	rad := t.Bearing * math.Pi / 180
	t.Position.Lat += distKm / 111.32 * math.Cos(rad)
	t.Position.Lon += distKm / (111.32 * math.Cos(t.Position.Lat*math.Pi/180)) * math.Sin(rad)
}

func (t *Tracker) payload() map[string]any {
	now := time.Now()
	return map[string]any{
		"imei":      t.Imei,
		"name":      t.Name,
		"latitude":  t.Position.Lat,
		"longitude": t.Position.Lon,
		"speed":     math.Round(t.SpeedKmh*10) / 10,
		"bearing":   math.Round(t.Bearing),
		"accuracy":  math.Round(rand.Float64()*100) / 10,
		"igStatus":  t.Ignition,
		"provider":  "gps",
		"reason":    "timer",
		"deviceRDT": now.UTC().Format("02/01/2006 15:04:05.000"),
		// Epoch milliseconds as a string, the way device firmware sends it.
		"time": strconv.FormatInt(now.UnixMilli(), 10),
	}
}

func postReport(apiURL string, body map[string]any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(apiURL+"/api/location", "application/json", bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to post report: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("report rejected with status: %d", resp.StatusCode)
	}
	return nil
}

func main() {
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	count := 5
	if v := os.Getenv("TRACKER_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			count = n
		}
	}
	interval := 5 * time.Second
	if v := os.Getenv("REPORT_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			interval = d
		}
	}

	trackers := make([]*Tracker, count)
	for i := range trackers {
		trackers[i] = newTracker(i)
	}

	log.WithFields(log.Fields{
		"trackers": count,
		"interval": interval.String(),
		"api_url":  apiURL,
	}).Info("Starting tracker simulator")

	for {
		for _, t := range trackers {
			t.step(interval.Seconds())
			if err := postReport(apiURL, t.payload()); err != nil {
				log.WithError(err).WithField("imei", t.Imei).Error("Failed to send report")
				continue
			}
			log.WithFields(log.Fields{
				"imei":  t.Imei,
				"lat":   t.Position.Lat,
				"lon":   t.Position.Lon,
				"speed": t.SpeedKmh,
			}).Info("Sent report")
		}
		time.Sleep(interval)
	}
}
