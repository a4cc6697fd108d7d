package models

// Region identifies a rent-control agglomeration. Values match the codes used
// by the upstream ingestion jobs that load rent_control_areas.
type Region string

const (
	RegionParis         Region = "PARIS"
	RegionEstEnsemble   Region = "EST_ENSEMBLE"
	RegionPlaineCommune Region = "PLAINE_COMMUNE"
	RegionLyon          Region = "LYON"
	RegionLille         Region = "LILLE"
	RegionMontpellier   Region = "MONTPELLIER"
	RegionBordeaux      Region = "BORDEAUX"
	RegionPaysBasque    Region = "PAYS_BASQUE"
	RegionGrenoble      Region = "GRENOBLE"
)

// Regions lists every supported agglomeration.
func Regions() []Region {
	return []Region{
		RegionParis, RegionEstEnsemble, RegionPlaineCommune,
		RegionLyon, RegionLille, RegionMontpellier,
		RegionBordeaux, RegionPaysBasque, RegionGrenoble,
	}
}

// AcceptedZoneID tags the coarse agglomeration mask polygons published by the
// observatoire for the two-tier regions. A mask carries no price-zone
// classification of its own.
const AcceptedZoneID = "ACCEPTED"

// Property type choices (price grids outside the big cities distinguish them).
const (
	PropertyTypeAppartement = "appartement"
	PropertyTypeMaison      = "maison"
)

// Room count choices. Grids cap at "4" meaning 4 pièces et plus.
const (
	RoomCountOne      = "1"
	RoomCountTwo      = "2"
	RoomCountThree    = "3"
	RoomCountFourPlus = "4"
)

// Construction period choices. Vocabulary varies per agglomeration, the union
// is kept here; a given grid only uses a subset.
const (
	ConstructionBefore1946 = "avant 1946"
	Construction1946To1970 = "1946-1970"
	Construction1971To1990 = "1971-1990"
	Construction1990To2005 = "1990-2005"
	ConstructionAfter1990  = "apres 1990"
	ConstructionAfter2005  = "apres 2005"
)
