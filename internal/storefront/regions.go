package storefront

var regionNames = map[string]string{
	"MX": "Mexico",
	"US": "United States",
	"BR": "Brazil",
	"ID": "Indonesia",
	"PH": "Philippines",
	"IN": "India",
	"MY": "Malaysia",
	"TH": "Thailand",
	"SG": "Singapore",
	"VN": "Vietnam",
}

// RegionName возвращает название региона, сам код для неизвестных кодов или "Unknown"
func RegionName(code string) string {
	if name, ok := regionNames[code]; ok {
		return name
	}
	if code == "" {
		return "Unknown"
	}
	return code
}

// RegionLabel - название региона с кодом в скобках: "Philippines (PH)"
func RegionLabel(code string) string {
	name := RegionName(code)
	if code == "" {
		return name
	}
	return name + " (" + code + ")"
}
