package catalog

import "github.com/andresuchdata/stockdash/internal/domain"

// Country codes of the shipped catalog.
const (
	Guatemala  = "GT"
	ElSalvador = "SV"
	Honduras   = "HN"
	CostaRica  = "CR"
	Panama     = "PA"
)

// HouseBrand is the brand literal retained by ingest unless configured otherwise.
const HouseBrand = "NEW ERA"

var shippedCountries = []CountrySpec{
	{
		Code: Guatemala,
		Name: "Guatemala",
		Stores: []StoreSpec{
			{Name: "Oakland Mall", Capacity: 3200},
			{Name: "Miraflores", Capacity: 2800},
			{Name: "Pradera Concepción", Capacity: 2200},
			{Name: "Portales", Capacity: 1600},
			{Name: "Naranjo Mall", Capacity: 1800},
			{Name: "Peri Roosevelt", Capacity: 1500},
			{Name: "Pradera Xela", Capacity: 1700},
			{Name: "Interplaza Xela", Capacity: 1200},
			{Name: "Metronorte", Capacity: 1400},
			{Name: "Plaza Madero Atanasio", Capacity: 1100},
			{Name: "Paseo Cayalá", Capacity: 2000},
			{Name: "Pradera Chimaltenango", Capacity: 1000},
			{Name: "Pradera Escuintla", Capacity: 1300},
			{Name: "Metrocentro Villa Nueva", Capacity: 1600},
			{Name: "Interplaza Escuintla", Capacity: 900},
			{Name: "Pradera Huehuetenango", Capacity: 1000},
			{Name: "Plaza Magdalena Cobán", Capacity: 900},
			{Name: "Pradera Chiquimula", Capacity: 800},
			{Name: "Pradera Zacapa", Capacity: 800},
			{Name: "Metroplaza Jutiapa", Capacity: 700},
			{Name: "Outlet Santa Clara", Capacity: 1200},
			{Name: "Paseo Antigua", Capacity: 1100},
			{Name: "Pradera Puerto Barrios", Capacity: 700},
			{Name: "CENTRAL NEW ERA", Central: true},
		},
	},
	{
		Code: ElSalvador,
		Name: "El Salvador",
		Stores: []StoreSpec{
			{Name: "Multiplaza", Capacity: 2600},
			{Name: "Metrocentro San Salvador", Capacity: 2200},
			{Name: "Galerías Escalón", Capacity: 1800},
			{Name: "La Gran Vía", Capacity: 1700},
			{Name: "Plaza Mundo Soyapango", Capacity: 1200},
			{Name: "Metrocentro Santa Ana", Capacity: 1100},
			{Name: "Metrocentro San Miguel", Capacity: 1000},
			{Name: "El Encuentro Lourdes", Capacity: 800},
			{Name: "New Era Central", Central: true},
		},
	},
	{
		Code: Honduras,
		Name: "Honduras",
		Stores: []StoreSpec{
			{Name: "Multiplaza Tegucigalpa", Capacity: 2000},
			{Name: "City Mall Tegucigalpa", Capacity: 1500},
			{Name: "Multiplaza San Pedro Sula", Capacity: 1800},
			{Name: "City Mall San Pedro Sula", Capacity: 1400},
			{Name: "Mega Mall San Pedro Sula", Capacity: 1000},
		},
	},
	{
		Code: CostaRica,
		Name: "Costa Rica",
		Stores: []StoreSpec{
			{Name: "Multiplaza Escazú", Capacity: 1800},
			{Name: "Bodega Central NEW ERA", Central: true},
		},
	},
	{
		Code: Panama,
		Name: "Panama",
		Stores: []StoreSpec{
			{Name: "Albrook Mall", Capacity: 2400},
			{Name: "Multiplaza Pacific", Capacity: 2000},
			{Name: "Metromall", Capacity: 1500},
			{Name: "Westland Mall", Capacity: 1100},
			{Name: "Bodega Central Albrook", Central: true},
			{Name: "Almacén general", Central: true},
		},
	},
}

var shippedLeagues = map[domain.LeagueCategory][]string{
	domain.CategoryMLB: {
		"MLB", "MLB OFFICIAL", "MLB COOPERSTOWN", "MILB", "MINOR LEAGUE", "WORLD BASEBALL CLASSIC",
	},
	domain.CategoryNBA: {
		"NBA", "NBA CLASSIC", "NBA HARDWOOD CLASSICS", "WNBA",
	},
	domain.CategoryNFL: {
		"NFL", "NFL THROWBACK", "NCAA",
	},
	domain.CategoryMotorsport: {
		"MOTORSPORT", "F1", "FORMULA 1", "MCLAREN", "RED BULL RACING", "MERCEDES AMG", "ALPINE", "NASCAR", "MOTOGP",
	},
	domain.CategoryEntertainment: {
		"ENTERTAINMENT", "NEW ERA", "NEW ERA BRANDED", "BRANDED", "ESSENTIAL",
		"DISNEY", "MARVEL", "STAR WARS", "WARNER BROS", "DC COMICS", "LOONEY TUNES", "POKEMON", "ANIME",
		"LICENSED", "LIFESTYLE", "MUSIC",
		"FEDEFUT", "FESFUT", "FENAFUTH", "FEDEFUTBOL", "FEPAFUT", "SELECCION NACIONAL", "LIGA NACIONAL",
	},
}

var shippedFlatSilhouettes = []string{
	"59FIFTY", "5950", "LP5950", "59FIFTY RETRO CROWN", "RC5950",
	"9FIFTY", "950", "950 A-FRAME", "950AF", "9FIFTY ORIGINAL FIT", "950OF", "9FIFTY STRETCH SNAP", "950SS",
	"9SEVENTY", "970", "LP950", "RC950",
}

var shippedCurvedSilhouettes = []string{
	"9FORTY", "940", "9FORTY A-FRAME", "940AF", "9FORTY M-CROWN", "940MC", "RC940",
	"9TWENTY", "920",
	"39THIRTY", "3930", "49FORTY", "4940",
	"CASUAL CLASSIC", "CASUAL", "9FORTY TRUCKER", "940TRUCKER",
}
