package view

import (
	"math"
	"sort"
	"time"

	"labtrack/internal/models"

	"github.com/shopspring/decimal"
)

type BookingStats struct {
	ReservasHoy         int `json:"reservasHoy"`
	CambioReservasHoy   int `json:"cambioReservasHoy"`
	OcupacionPorcentaje int `json:"ocupacionPorcentaje"`
	Pendientes          int `json:"pendientes"`
}

type MovementStats struct {
	TotalMovimientos int `json:"totalMovimientos"`
	EnPrestamo       int `json:"enPrestamo"`
	EnMantenimiento  int `json:"enMantenimiento"`
	BajasMes         int `json:"bajasMes"`
}

type DashboardKPIs struct {
	TotalActivos           int             `json:"totalActivos"`
	ActivosOperativos      int             `json:"activosOperativos"`
	ActivosEnMantenimiento int             `json:"activosEnMantenimiento"`
	ValorTotalInventario   decimal.Decimal `json:"valorTotalInventario"`
	ReservasActivas        int             `json:"reservasActivas"`
}

type AssetDistribution struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Color      string  `json:"color"`
	Percentage float64 `json:"percentage"`
}

var categoryColors = map[models.ItemCategory]string{
	models.CategoryComputing:   "blue",
	models.CategoryFurniture:   "gray",
	models.CategoryElectronics: "orange",
	models.CategoryNetworking:  "teal",
	models.CategoryChemistry:   "grape",
	models.CategoryDesign:      "pink",
}

// ComputeBookingStats summarizes the bookings of now's calendar day.
// Occupancy is the share of known labs holding a non-cancelled booking today.
func ComputeBookingStats(bookings []models.Booking, now time.Time, loc *time.Location) BookingStats {
	yesterday := now.AddDate(0, 0, -1)

	var stats BookingStats
	var yesterdayCount int
	labs := make(map[string]bool)
	busy := make(map[string]bool)

	for _, b := range bookings {
		labs[b.LaboratorioID] = true
		if b.Estado == models.BookingPending {
			stats.Pendientes++
		}
		switch {
		case models.SameDay(b.Fecha, now, loc):
			stats.ReservasHoy++
			if b.Active() {
				busy[b.LaboratorioID] = true
			}
		case models.SameDay(b.Fecha, yesterday, loc):
			yesterdayCount++
		}
	}

	stats.CambioReservasHoy = stats.ReservasHoy - yesterdayCount
	if len(labs) > 0 {
		stats.OcupacionPorcentaje = int(math.Round(float64(len(busy)) * 100 / float64(len(labs))))
	}
	return stats
}

// ComputeMovementStats counts the movement log and the items currently on
// loan or under maintenance. Decommissions are counted for now's month.
func ComputeMovementStats(movements []models.Movement, items []models.InventoryItem, now time.Time, loc *time.Location) MovementStats {
	if loc == nil {
		loc = time.Local
	}
	stats := MovementStats{TotalMovimientos: len(movements)}

	year, month, _ := now.In(loc).Date()
	for _, m := range movements {
		if m.Tipo != models.MovementDecommission {
			continue
		}
		y, mo, _ := m.Fecha.In(loc).Date()
		if y == year && mo == month {
			stats.BajasMes++
		}
	}

	for _, item := range items {
		switch item.Estado {
		case models.ItemOnLoan:
			stats.EnPrestamo++
		case models.ItemUnderMaintenance:
			stats.EnMantenimiento++
		}
	}
	return stats
}

func ComputeKPIs(items []models.InventoryItem, bookings []models.Booking) DashboardKPIs {
	kpis := DashboardKPIs{
		TotalActivos:         len(items),
		ValorTotalInventario: decimal.Zero,
	}
	for _, item := range items {
		switch item.Estado {
		case models.ItemOperational:
			kpis.ActivosOperativos++
		case models.ItemUnderMaintenance:
			kpis.ActivosEnMantenimiento++
		}
		kpis.ValorTotalInventario = kpis.ValorTotalInventario.Add(item.CostOrZero())
	}
	for _, b := range bookings {
		if b.Estado == models.BookingConfirmed || b.Estado == models.BookingInProgress {
			kpis.ReservasActivas++
		}
	}
	return kpis
}

// ComputeAssetDistribution groups items by category, in category order,
// omitting empty categories. Percentages have one decimal.
func ComputeAssetDistribution(items []models.InventoryItem) []AssetDistribution {
	counts := make(map[models.ItemCategory]int)
	for _, item := range items {
		counts[item.Categoria]++
	}

	out := []AssetDistribution{}
	for _, cat := range models.ItemCategories {
		n := counts[cat]
		if n == 0 {
			continue
		}
		out = append(out, AssetDistribution{
			Label:      string(cat),
			Count:      n,
			Color:      categoryColors[cat],
			Percentage: math.Round(float64(n)*1000/float64(len(items))) / 10,
		})
	}
	return out
}

// RecentActivity returns up to limit bookings, latest first.
func RecentActivity(bookings []models.Booking, limit int) []models.Booking {
	out := append([]models.Booking(nil), bookings...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Fecha.Equal(out[j].Fecha) {
			return out[i].Fecha.After(out[j].Fecha)
		}
		return out[i].HoraInicio > out[j].HoraInicio
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []models.Booking{}
	}
	return out
}
