package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"labtrack/internal/domain"
	"labtrack/internal/models"
)

const (
	sessionHeader = "X-Session-ID"
	maxBodyBytes  = 1 << 20
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type locationEntry struct {
	Campus    string   `json:"campus"`
	Edificios []string `json:"edificios"`
}

type campusSelection struct {
	Campus *string `json:"campus"`
}

type buildingSelection struct {
	Edificio *string `json:"edificio"`
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.svc.Ready != nil {
		if err := s.svc.Ready(r.Context()); err != nil {
			s.log.Warn().Err(err).Msg("readiness check failed")
			writeError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *HTTPServer) handleListInventory(w http.ResponseWriter, r *http.Request) {
	page, err := s.svc.Inventory.Page(r.Context(), filterFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *HTTPServer) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.svc.Inventory.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var item models.InventoryItem
	if !decodeBody(w, r, &item) {
		return
	}
	created, err := s.svc.Inventory.CreateItem(r.Context(), item)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var item models.InventoryItem
	if !decodeBody(w, r, &item) {
		return
	}
	item.ID = r.PathValue("id")
	updated, err := s.svc.Inventory.UpdateItem(r.Context(), item)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *HTTPServer) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Inventory.DeleteItem(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, err := parseDate(q.Get("date"), "date", s.svc.Location)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	bookings, err := s.svc.Bookings.ListBookings(r.Context(), domain.BookingFilters{
		Search: q.Get("search"),
		Date:   date,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var booking models.Booking
	if !decodeBody(w, r, &booking) {
		return
	}
	created, err := s.svc.Bookings.CreateBooking(r.Context(), booking)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	var patch models.BookingPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	updated, err := s.svc.Bookings.UpdateBooking(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *HTTPServer) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	cancelled, err := s.svc.Bookings.CancelBooking(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cancelled)
}

func (s *HTTPServer) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Bookings.DeleteBooking(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleBookingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Bookings.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *HTTPServer) handleListMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseDate(q.Get("fechaInicio"), "fechaInicio", s.svc.Location)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	to, err := parseDate(q.Get("fechaFin"), "fechaFin", s.svc.Location)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	movements, err := s.svc.Movements.ListMovements(r.Context(), domain.MovementFilters{
		Search:      q.Get("search"),
		Tipo:        models.MovementType(q.Get("tipo")),
		FechaInicio: from,
		FechaFin:    to,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"movements": movements})
}

func (s *HTTPServer) handleRegisterMovement(w http.ResponseWriter, r *http.Request) {
	var movement models.Movement
	if !decodeBody(w, r, &movement) {
		return
	}
	registered, err := s.svc.Movements.RegisterMovement(r.Context(), movement)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, registered)
}

func (s *HTTPServer) handleMovementStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Movements.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *HTTPServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.svc.Dashboard.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *HTTPServer) handleKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := s.svc.Dashboard.KPIs(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kpis)
}

func (s *HTTPServer) handleDistribution(w http.ResponseWriter, r *http.Request) {
	distribution, err := s.svc.Dashboard.AssetDistribution(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"distribution": distribution})
}

func (s *HTTPServer) handleActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := s.svc.Dashboard.RecentActivity(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": activity})
}

func (s *HTTPServer) handleLocations(w http.ResponseWriter, _ *http.Request) {
	catalog := s.svc.Locations
	if len(catalog) == 0 {
		catalog = models.DefaultLocationCatalog()
	}
	out := make([]locationEntry, 0, len(catalog))
	for _, campus := range catalog.Campuses() {
		out = append(out, locationEntry{Campus: campus, Edificios: catalog.Buildings(campus)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": out})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.svc.Exporter == nil {
		writeError(w, http.StatusNotFound, "export is not configured")
		return
	}
	name := fmt.Sprintf("inventario_%s.xlsx", time.Now().In(s.svc.Location).Format(models.DateLayout))
	w.Header().Set("Content-Type", xlsxMediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	if err := s.svc.Exporter.Write(r.Context(), w); err != nil {
		w.Header().Del("Content-Disposition")
		s.log.Error().Err(err).Msg("inventory export failed")
		writeServiceError(w, err)
	}
}

// handleSaveExport writes a workbook into the configured export directory.
func (s *HTTPServer) handleSaveExport(w http.ResponseWriter, r *http.Request) {
	if s.svc.Exporter == nil {
		writeError(w, http.StatusNotFound, "export is not configured")
		return
	}
	path, err := s.svc.Exporter.Save(r.Context(), time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("inventory snapshot failed")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

func (s *HTTPServer) handleGetViewState(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}
	filter, err := s.svc.ViewState.GetFilter(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filter)
}

func (s *HTTPServer) handleSetViewState(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}
	var filter models.FilterState
	if !decodeBody(w, r, &filter) {
		return
	}
	stored, err := s.svc.ViewState.SetFilter(r.Context(), sessionID, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *HTTPServer) handleClearViewState(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := s.svc.ViewState.ClearFilter(r.Context(), sessionID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleSelectCampus(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}
	var sel campusSelection
	if !decodeBody(w, r, &sel) {
		return
	}
	filter, err := s.svc.ViewState.SelectCampus(r.Context(), sessionID, sel.Campus)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filter)
}

func (s *HTTPServer) handleSelectBuilding(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}
	var sel buildingSelection
	if !decodeBody(w, r, &sel) {
		return
	}
	filter, err := s.svc.ViewState.SelectBuilding(r.Context(), sessionID, sel.Edificio)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filter)
}

func requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := strings.TrimSpace(r.Header.Get(sessionHeader))
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing "+sessionHeader+" header")
		return "", false
	}
	return sessionID, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body: "+err.Error())
		return false
	}
	return true
}

func filterFromQuery(r *http.Request) models.FilterState {
	q := r.URL.Query()
	var f models.FilterState
	if v := strings.TrimSpace(q.Get("campus")); v != "" {
		f.Campus = &v
	}
	if v := strings.TrimSpace(q.Get("edificio")); v != "" {
		f.Edificio = &v
	}
	if v := strings.TrimSpace(q.Get("tipoDeLab")); v != "" {
		lt := models.LabType(v)
		f.TipoDeLab = &lt
	}
	if v := strings.TrimSpace(q.Get("categoria")); v != "" {
		c := models.ItemCategory(v)
		f.Categoria = &c
	}
	if v := strings.TrimSpace(q.Get("estado")); v != "" {
		st := models.ItemStatus(v)
		f.Estado = &st
	}
	return f
}

func parseDate(raw, field string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(models.DateLayout, raw, loc)
	if err != nil {
		return nil, &models.ValidationError{Field: field, Message: "expected " + models.DateLayout}
	}
	return &t, nil
}
