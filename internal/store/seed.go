package store

import (
	"fmt"
	"os"
	"time"

	"labtrack/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Seed is the initial content of a Store.
type Seed struct {
	Items     []models.InventoryItem `yaml:"items"`
	Bookings  []models.Booking       `yaml:"bookings"`
	Movements []models.Movement      `yaml:"movements"`
}

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return seed, nil
}

// DefaultSeed is the demo dataset of the console. Bookings are placed on the
// calendar day of now.
func DefaultSeed(now time.Time, loc *time.Location) Seed {
	if loc == nil {
		loc = time.Local
	}
	day := models.StartOfDay(now, loc)
	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return &t
	}
	cost := func(v int64) *decimal.Decimal {
		c := decimal.NewFromInt(v)
		return &c
	}

	return Seed{
		Items: []models.InventoryItem{
			{
				ID: "INV-0001", Nombre: "Laptop Dell Latitude", Categoria: models.CategoryComputing, Estado: models.ItemOperational,
				Campus: "Campus Central", Edificio: "Edificio A", Laboratorio: "Lab 101", TipoDeLab: models.LabComputing,
				FechaAdquisicion: date(2022, time.February, 14), Proveedor: "Dell", Costo: cost(1200),
			},
			{
				ID: "INV-0002", Nombre: "Router Cisco", Categoria: models.CategoryNetworking, Estado: models.ItemUnderMaintenance,
				Campus: "Campus Norte", Edificio: "Edificio Redes", Laboratorio: "Lab Redes 2", TipoDeLab: models.LabNetworking,
				FechaAdquisicion: date(2021, time.August, 3), UltimoMantenimiento: date(2024, time.March, 10), Proveedor: "Cisco", Costo: cost(850),
			},
			{
				ID: "INV-0003", Nombre: "Campana de Extracción", Categoria: models.CategoryChemistry, Estado: models.ItemOperational,
				Campus: "Campus Sur", Edificio: "Ciencias", Laboratorio: "Lab Química 1", TipoDeLab: models.LabChemistry,
				FechaAdquisicion: date(2020, time.January, 20), Proveedor: "LabCorp", Costo: cost(2300),
			},
			{
				ID: "INV-0004", Nombre: "Mesa de Trabajo", Categoria: models.CategoryFurniture, Estado: models.ItemOperational,
				Campus: "Campus Sur", Edificio: "Ingeniería", Laboratorio: "Lab Prototipos", TipoDeLab: models.LabDesign,
				FechaAdquisicion: date(2019, time.May, 9), Costo: cost(300),
			},
			{
				ID: "INV-0005", Nombre: "Impresora 3D", Categoria: models.CategoryDesign, Estado: models.ItemOperational,
				Campus: "Campus Norte", Edificio: "FabLab", Laboratorio: "FabLab", TipoDeLab: models.LabDesign,
				FechaAdquisicion: date(2023, time.September, 1), Proveedor: "Prusa", Costo: cost(1800),
			},
			{
				ID: "INV-0006", Nombre: "Estación de Soldadura", Categoria: models.CategoryElectronics, Estado: models.ItemOnLoan,
				Campus: "Campus Central", Edificio: "Edificio A", Laboratorio: "Aula Magna", TipoDeLab: models.LabElectronics,
				FechaAdquisicion: date(2022, time.June, 17), Proveedor: "Weller", Costo: cost(450),
			},
			{
				ID: "INV-0007", Nombre: "Switch HP 24 puertos", Categoria: models.CategoryNetworking, Estado: models.ItemOperational,
				Campus: "Campus Norte", Edificio: "Edificio Redes", Laboratorio: "Lab Redes 1", TipoDeLab: models.LabNetworking,
				FechaAdquisicion: date(2021, time.November, 11), Proveedor: "HP", Costo: cost(600),
			},
			{
				ID: "INV-0008", Nombre: "Monitor LG 27\"", Categoria: models.CategoryComputing, Estado: models.ItemDecommissioned,
				Campus: "Campus Central", Edificio: "Edificio B", Laboratorio: "Lab 204", TipoDeLab: models.LabComputing,
				FechaAdquisicion: date(2018, time.March, 2), Proveedor: "LG", Costo: cost(250),
			},
		},
		Bookings: []models.Booking{
			{
				ID: "BV-001", LaboratorioID: "LAB-101", LaboratorioNombre: "Lab Química 1", TipoDeLab: models.LabChemistry,
				Solicitante: "Ana López", Asunto: "Clase Intro Química", Campus: "Campus Sur", Edificio: "Ciencias",
				Fecha: day, HoraInicio: "08:00", HoraFin: "10:00", Estado: models.BookingConfirmed,
			},
			{
				ID: "BV-002", LaboratorioID: "LAB-202", LaboratorioNombre: "Lab Física 2", TipoDeLab: models.LabComputing,
				Solicitante: "Carlos Ruiz", Asunto: "Proyecto Final", Campus: "Campus Central", Edificio: "Edificio B",
				Fecha: day, HoraInicio: "10:00", HoraFin: "12:00", Estado: models.BookingInProgress,
			},
			{
				ID: "BV-003", LaboratorioID: "LAB-303", LaboratorioNombre: "Lab Cómputo", TipoDeLab: models.LabComputing,
				Solicitante: "María Gómez", Asunto: "Mantenimiento Preventivo", Campus: "Campus Central", Edificio: "Edificio A",
				Fecha: day, HoraInicio: "12:00", HoraFin: "14:00", Estado: models.BookingFinished,
			},
			{
				ID: "BV-004", LaboratorioID: "LAB-404", LaboratorioNombre: "Lab Biología", TipoDeLab: models.LabChemistry,
				Solicitante: "Jorge Vega", Asunto: "Investigación Celular", Campus: "Campus Sur", Edificio: "Ciencias",
				Fecha: day, HoraInicio: "14:00", HoraFin: "16:00", Estado: models.BookingPending,
			},
		},
		Movements: []models.Movement{
			{
				ID: "MOV-001", ItemID: "INV-0002", ItemNombre: "Router Cisco",
				Fecha: time.Date(2024, time.March, 10, 10, 0, 0, 0, loc), Tipo: models.MovementMaintenance,
				Origen:      models.LocationSnapshot{Campus: "Campus Norte", Edificio: "Edificio Redes", Laboratorio: "Lab Redes 2"},
				Destino:     &models.LocationSnapshot{Campus: "Externo", Edificio: "Taller Central", Laboratorio: "Soporte"},
				Responsable: "Carlos Ruiz", Motivo: "Fallo en puerto WAN",
			},
			{
				ID: "MOV-002", ItemID: "INV-0004", ItemNombre: "Mesa de Trabajo",
				Fecha: time.Date(2024, time.March, 12, 9, 30, 0, 0, loc), Tipo: models.MovementReassignment,
				Origen:      models.LocationSnapshot{Campus: "Campus Central", Edificio: "Edificio A", Laboratorio: "Lab Diseño 3"},
				Destino:     &models.LocationSnapshot{Campus: "Campus Sur", Edificio: "Ingeniería", Laboratorio: "Lab Prototipos"},
				Responsable: "Ana López", Motivo: "Solicitud de expansión de área",
			},
			{
				ID: "MOV-003", ItemID: "INV-0006", ItemNombre: "Estación de Soldadura",
				Fecha: time.Date(2024, time.March, 14, 15, 45, 0, 0, loc), Tipo: models.MovementLoan,
				Origen:      models.LocationSnapshot{Campus: "Campus Central", Edificio: "Edificio B", Laboratorio: "Lab Electrónica 2"},
				Destino:     &models.LocationSnapshot{Campus: "Campus Central", Edificio: "Edificio A", Laboratorio: "Aula Magna"},
				Responsable: "Jorge Vega", Motivo: "Clase demostrativa",
			},
		},
	}
}
