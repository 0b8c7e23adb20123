package catalog

import "path/filepath"

// BundledRouteFiles is the GGTM26 route set shipped with the event.
var BundledRouteFiles = []string{
	"GGTM26_D1_A_Helios_Port_de_Soller_107km_1800hm.gpx",
	"GGTM26_D1_A_Port_de_Soller_Helios_87km_1500hm.gpx",
	"GGTM26_D1_B_Helios_Port_de_Soller_66km_1000hm.gpx",
	"GGTM26_D1_B1_Port_de_Soller_Helios_40km_500hm.gpx",
	"GGTM26_D1_B2_Port_de_Soller_Helios_60km_1100hm.gpx",
	"GGTM26_D2_A_Cap_de_Formentor_Helios_125km_1300hm.gpx",
	"GGTM26_D2_A_Helios_Cap_de_Formentor_108km_1930hm.gpx",
	"GGTM26_D2_B_Helios_Cap_de_Formentor_83km_1000hm.gpx",
	"GGTM26_D2_B1_Cap_de_Formentor_Helios_(tog)_40km_500hm.gpx",
	"GGTM26_D2_B2_Cap_de_Formentor_Helios_(tog)_60km_1100hm.gpx",
	"GGTM26_D3_A_Helios_Sa_Calobra__105km_1900hm.gpx",
	"GGTM26_D3_A_Sa_Calobra__Helios_100km_2300hm.gpx",
	"GGTM26_D3_B_Helios_Sa_Calobra__75km_1100hm.gpx",
	"GGTM26_D3_B1_Sa_Calobra__Helios_70km_1000hm.gpx",
	"GGTM26_D3_B2_Sa_Calobra__Helios_90km_1500hm.gpx",
	"GGTM26_D4_A_Helios_Puig_Major__72km_2400hm.gpx",
	"GGTM26_D4_A_Puig_Major_Helios_100km_1700hm.gpx",
	"GGTM26_D4_B_Helios_Puig_Major__62km_1700hm.gpx",
	"GGTM26_D4_B_Puig_Major_Helios_76km_850hm.gpx",
}

// MissingFromManifest returns the bundled files absent from loaded, compared by base name.
func MissingFromManifest(loaded []string) []string {
	have := make(map[string]struct{}, len(loaded))
	for _, name := range loaded {
		have[filepath.Base(name)] = struct{}{}
	}

	var missing []string
	for _, name := range BundledRouteFiles {
		if _, ok := have[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
