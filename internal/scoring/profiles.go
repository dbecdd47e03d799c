package scoring

import (
	"sort"
	"strings"

	"github.com/mr1hm/safemap/internal/models"
)

// ProfileSource reports which table answered a profile lookup.
type ProfileSource string

const (
	ProfileSourceCountry ProfileSource = "country"
	ProfileSourceRegion  ProfileSource = "region"
	ProfileSourceDefault ProfileSource = "default"
)

// DefaultProfile is returned when neither the country nor the region is known.
var DefaultProfile = models.BaseScore{Overall: 60, Disaster: 50, Air: 60, Crime: 60, Political: 60}

// Sources: Global Peace Index 2024, IQAir 2024, Numbeo Crime Index 2024.
var countryProfiles = map[string]models.BaseScore{
	// very safe
	"IS": {Overall: 94, Disaster: 90, Air: 95, Crime: 96, Political: 95}, // Iceland
	"IE": {Overall: 92, Disaster: 88, Air: 90, Crime: 91, Political: 94}, // Ireland
	"AT": {Overall: 91, Disaster: 85, Air: 88, Crime: 92, Political: 93}, // Austria
	"NZ": {Overall: 90, Disaster: 70, Air: 92, Crime: 91, Political: 95}, // New Zealand
	"CA": {Overall: 90, Disaster: 75, Air: 88, Crime: 88, Political: 95}, // Canada
	"DK": {Overall: 90, Disaster: 88, Air: 89, Crime: 91, Political: 93}, // Denmark
	"CH": {Overall: 89, Disaster: 85, Air: 87, Crime: 93, Political: 92}, // Switzerland
	"FI": {Overall: 89, Disaster: 87, Air: 90, Crime: 92, Political: 91}, // Finland
	"NO": {Overall: 89, Disaster: 82, Air: 91, Crime: 93, Political: 92}, // Norway
	"SE": {Overall: 88, Disaster: 85, Air: 89, Crime: 88, Political: 91}, // Sweden
	"AU": {Overall: 88, Disaster: 55, Air: 90, Crime: 85, Political: 92}, // Australia
	"JP": {Overall: 85, Disaster: 40, Air: 82, Crime: 95, Political: 90}, // Japan
	"DE": {Overall: 84, Disaster: 80, Air: 82, Crime: 85, Political: 89}, // Germany
	"GB": {Overall: 82, Disaster: 80, Air: 75, Crime: 50, Political: 88}, // UK
	"NL": {Overall: 82, Disaster: 75, Air: 78, Crime: 82, Political: 89}, // Netherlands
	"BE": {Overall: 80, Disaster: 82, Air: 75, Crime: 72, Political: 84}, // Belgium
	"FR": {Overall: 79, Disaster: 70, Air: 72, Crime: 58, Political: 82}, // France
	"ES": {Overall: 79, Disaster: 72, Air: 76, Crime: 74, Political: 82}, // Spain
	"PT": {Overall: 80, Disaster: 68, Air: 80, Crime: 82, Political: 84}, // Portugal
	"IT": {Overall: 76, Disaster: 60, Air: 68, Crime: 65, Political: 80}, // Italy
	"GR": {Overall: 74, Disaster: 58, Air: 72, Crime: 68, Political: 76}, // Greece

	// moderate
	"US": {Overall: 75, Disaster: 45, Air: 72, Crime: 55, Political: 85}, // USA
	"CN": {Overall: 60, Disaster: 50, Air: 40, Crime: 75, Political: 55}, // China
	"IN": {Overall: 61, Disaster: 50, Air: 35, Crime: 60, Political: 65}, // India
	"BR": {Overall: 55, Disaster: 60, Air: 65, Crime: 35, Political: 60}, // Brazil
	"MX": {Overall: 52, Disaster: 55, Air: 58, Crime: 30, Political: 62}, // Mexico
	"ZA": {Overall: 45, Disaster: 55, Air: 62, Crime: 25, Political: 58}, // South Africa
	"TR": {Overall: 58, Disaster: 50, Air: 60, Crime: 62, Political: 52}, // Turkey
	"TH": {Overall: 65, Disaster: 55, Air: 58, Crime: 68, Political: 62}, // Thailand
	"MY": {Overall: 68, Disaster: 60, Air: 62, Crime: 72, Political: 65}, // Malaysia
	"SG": {Overall: 91, Disaster: 75, Air: 78, Crime: 96, Political: 88}, // Singapore
	"AE": {Overall: 78, Disaster: 80, Air: 55, Crime: 88, Political: 72}, // UAE
	"SA": {Overall: 55, Disaster: 75, Air: 45, Crime: 70, Political: 48}, // Saudi Arabia
	"EG": {Overall: 48, Disaster: 65, Air: 35, Crime: 55, Political: 42}, // Egypt
	"NG": {Overall: 35, Disaster: 45, Air: 40, Crime: 28, Political: 30}, // Nigeria
	"KE": {Overall: 48, Disaster: 50, Air: 55, Crime: 38, Political: 45}, // Kenya
	"GH": {Overall: 62, Disaster: 58, Air: 52, Crime: 62, Political: 65}, // Ghana
	"ET": {Overall: 38, Disaster: 40, Air: 48, Crime: 42, Political: 32}, // Ethiopia
	"TZ": {Overall: 52, Disaster: 48, Air: 58, Crime: 52, Political: 55}, // Tanzania
	"MA": {Overall: 58, Disaster: 60, Air: 52, Crime: 58, Political: 55}, // Morocco
	"TN": {Overall: 60, Disaster: 65, Air: 58, Crime: 60, Political: 56}, // Tunisia
	"PH": {Overall: 52, Disaster: 35, Air: 50, Crime: 48, Political: 55}, // Philippines
	"ID": {Overall: 55, Disaster: 30, Air: 42, Crime: 60, Political: 58}, // Indonesia
	"VN": {Overall: 65, Disaster: 45, Air: 45, Crime: 72, Political: 62}, // Vietnam
	"KR": {Overall: 78, Disaster: 65, Air: 55, Crime: 88, Political: 80}, // South Korea
	"TW": {Overall: 82, Disaster: 50, Air: 65, Crime: 90, Political: 82}, // Taiwan
	"HK": {Overall: 75, Disaster: 65, Air: 60, Crime: 88, Political: 65}, // Hong Kong
	"AR": {Overall: 55, Disaster: 60, Air: 65, Crime: 40, Political: 58}, // Argentina
	"CL": {Overall: 65, Disaster: 45, Air: 68, Crime: 58, Political: 70}, // Chile
	"CO": {Overall: 50, Disaster: 52, Air: 60, Crime: 35, Political: 52}, // Colombia
	"PE": {Overall: 52, Disaster: 45, Air: 58, Crime: 42, Political: 55}, // Peru

	// dangerous
	"RU": {Overall: 40, Disaster: 55, Air: 60, Crime: 45, Political: 20}, // Russia
	"PK": {Overall: 35, Disaster: 40, Air: 35, Crime: 40, Political: 25}, // Pakistan
	"AF": {Overall: 8, Disaster: 25, Air: 30, Crime: 10, Political: 5},   // Afghanistan
	"UA": {Overall: 20, Disaster: 15, Air: 40, Crime: 30, Political: 5},  // Ukraine
	"SY": {Overall: 12, Disaster: 20, Air: 30, Crime: 10, Political: 5},  // Syria
	"YE": {Overall: 10, Disaster: 20, Air: 35, Crime: 12, Political: 5},  // Yemen
	"SO": {Overall: 8, Disaster: 25, Air: 40, Crime: 8, Political: 5},    // Somalia
	"SD": {Overall: 18, Disaster: 28, Air: 32, Crime: 15, Political: 10}, // Sudan
	"IQ": {Overall: 25, Disaster: 35, Air: 28, Crime: 20, Political: 15}, // Iraq
	"LY": {Overall: 22, Disaster: 40, Air: 38, Crime: 18, Political: 12}, // Libya
	"MM": {Overall: 28, Disaster: 35, Air: 38, Crime: 25, Political: 15}, // Myanmar
	"VE": {Overall: 25, Disaster: 50, Air: 55, Crime: 12, Political: 18}, // Venezuela
	"HT": {Overall: 18, Disaster: 25, Air: 45, Crime: 10, Political: 15}, // Haiti
	"CD": {Overall: 15, Disaster: 30, Air: 38, Crime: 12, Political: 8},  // DR Congo
	"CF": {Overall: 12, Disaster: 25, Air: 42, Crime: 10, Political: 8},  // Central African Rep
	"ML": {Overall: 22, Disaster: 35, Air: 30, Crime: 20, Political: 12}, // Mali
	"NE": {Overall: 25, Disaster: 30, Air: 28, Crime: 22, Political: 15}, // Niger
	"SS": {Overall: 10, Disaster: 22, Air: 35, Crime: 8, Political: 5},   // South Sudan
}

// Column averages of countryProfiles grouped by continent.
var regionalAverages = map[string]models.BaseScore{
	"Africa":   {Overall: 34, Disaster: 42, Air: 44, Crime: 31, Political: 30},
	"Americas": {Overall: 54, Disaster: 51, Air: 63, Crime: 40, Political: 57},
	"Asia":     {Overall: 55, Disaster: 48, Air: 49, Crime: 59, Political: 51},
	"Europe":   {Overall: 79, Disaster: 74, Air: 79, Crime: 76, Political: 80},
	"Oceania":  {Overall: 89, Disaster: 62, Air: 91, Crime: 88, Political: 94},
}

// ResolveProfile looks up the baseline for a country code, falling back to
// the regional average and then to DefaultProfile. Codes are matched
// case-insensitively; region names must match exactly.
func ResolveProfile(code, region string) models.BaseScore {
	p, _ := LookupProfile(code, region)
	return p
}

// LookupProfile is ResolveProfile that also reports which table matched.
func LookupProfile(code, region string) (models.BaseScore, ProfileSource) {
	if p, ok := countryProfiles[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return p, ProfileSourceCountry
	}
	if p, ok := regionalAverages[region]; ok {
		return p, ProfileSourceRegion
	}
	return DefaultProfile, ProfileSourceDefault
}

type CountryProfile struct {
	Code string `json:"code"`
	models.BaseScore
}

// Profiles returns the curated country table sorted by code.
func Profiles() []CountryProfile {
	out := make([]CountryProfile, 0, len(countryProfiles))
	for code, p := range countryProfiles {
		out = append(out, CountryProfile{Code: code, BaseScore: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Regions returns the names of the regional fallback profiles, sorted.
func Regions() []string {
	out := make([]string, 0, len(regionalAverages))
	for name := range regionalAverages {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
