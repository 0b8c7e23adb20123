package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

type Direction string

const (
	DirectionUnknown  Direction = ""
	DirectionOutbound Direction = "outbound"
	DirectionReturn   Direction = "return"
)

// Metadata is what a route file name such as
// GGTM26_D1_A_Helios_Port_de_Soller_107km_1800hm.gpx says about the route.
type Metadata struct {
	Event       string `json:"event"`
	Day         int    `json:"day"`
	Variant     string `json:"variant"`
	Description string `json:"description"`
	// Pairable is true for plain A/B routes whose description does not
	// continue a split numbering (text starting with 1 or 2).
	Pairable bool `json:"pairable"`
}

var fileNamePattern = regexp.MustCompile(`GGTM(\d+)_D(\d+)_([A-Z][0-9]*)_(.*)$`)

func ParseFileName(name string) (Metadata, bool) {
	m := fileNamePattern.FindStringSubmatch(name)
	if m == nil {
		return Metadata{}, false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil {
		return Metadata{}, false
	}

	description := m[4]
	if strings.HasSuffix(strings.ToLower(description), ".gpx") {
		description = description[:len(description)-len(".gpx")]
	}

	meta := Metadata{
		Event:       m[1],
		Day:         day,
		Variant:     m[3],
		Description: description,
	}
	meta.Pairable = (meta.Variant == "A" || meta.Variant == "B") &&
		description != "" && description[0] != '1' && description[0] != '2'
	return meta, true
}

// Direction relative to the home base: leaving it when the description starts
// there, arriving when it ends there.
func (m Metadata) Direction(homeBase string) Direction {
	if homeBase == "" {
		return DirectionUnknown
	}
	if strings.HasPrefix(m.Description, homeBase+"_") {
		return DirectionOutbound
	}
	if strings.Contains(m.Description, "_"+homeBase) {
		return DirectionReturn
	}
	return DirectionUnknown
}
