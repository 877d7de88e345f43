package seed

// Supported state. The dashboard currently covers Maharashtra only; adding
// a state means adding its district list here.
const (
	StateCode = "MH"
	StateName = "Maharashtra"
)

// maharashtraDistricts are the 36 districts, Devanagari name first and the
// English short form in parentheses. The parenthetical form is what the
// location matcher compares geocoder output against.
var maharashtraDistricts = []string{
	"अहमदनगर (Ahmednagar)",
	"अकोला (Akola)",
	"अमरावती (Amravati)",
	"छत्रपति संभाजीनगर (Chh. Sambhajinagar)",
	"बीड (Beed)",
	"भंडारा (Bhandara)",
	"बुलढाणा (Buldhana)",
	"चंद्रपूर (Chandrapur)",
	"धुळे (Dhule)",
	"गडचिरोली (Gadchiroli)",
	"गोंदिया (Gondia)",
	"हिंगोली (Hingoli)",
	"जळगाव (Jalgaon)",
	"जालना (Jalna)",
	"कोल्हापूर (Kolhapur)",
	"लातूर (Latur)",
	"मुंबई शहर (Mumbai City)",
	"मुंबई उपनगर (Mumbai Suburban)",
	"नागपूर (Nagpur)",
	"नांदेड (Nanded)",
	"नंदुरबार (Nandurbar)",
	"नाशिक (Nashik)",
	"धाराशिव (Dharashiv)",
	"पालघर (Palghar)",
	"परभणी (Parbhani)",
	"पुणे (Pune)",
	"रायगड (Raigad)",
	"रत्नागिरी (Ratnagiri)",
	"सांगली (Sangli)",
	"सातारा (Satara)",
	"सिंधुदुर्ग (Sindhudurg)",
	"सोलापूर (Solapur)",
	"ठाणे (Thane)",
	"वर्धा (Wardha)",
	"वाशिम (Washim)",
	"यवतमाळ (Yavatmal)",
}

// DistrictNames returns the reference list with duplicates removed,
// preserving order. The list is hand-maintained, so dedupe before insert.
func DistrictNames() []string {
	seen := make(map[string]bool, len(maharashtraDistricts))
	names := make([]string, 0, len(maharashtraDistricts))
	for _, name := range maharashtraDistricts {
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
