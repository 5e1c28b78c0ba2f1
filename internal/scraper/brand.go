package scraper

import "strings"

// brandVocabulary is ordered: specific sub-brands come before their generic
// parents so that "Apple MacBook Pro" classifies as MacBook, not Apple.
var brandVocabulary = []string{
	"MacBook", "ThinkPad", "XPS", "Surface", "Alienware",
	"Dell", "Lenovo", "HP", "ASUS", "Acer", "MSI",
	"Apple", "Microsoft", "Razer", "Sony", "Toshiba",
}

// DetectBrand matches a listing title against the known-brand vocabulary and
// returns the first entry found as a case-insensitive substring.
func DetectBrand(title string) string {
	titleLower := strings.ToLower(title)

	for _, brand := range brandVocabulary {
		if strings.Contains(titleLower, strings.ToLower(brand)) {
			return brand
		}
	}
	return ""
}
