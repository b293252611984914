package leads

import "github.com/octobees/webdone/internal/entity"

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

// SampleLeads returns a small illustrative set of Romanian businesses.
// Production lookups never fall back to it; it exists for demos and tests.
func SampleLeads() []entity.Lead {
	return []entity.Lead{
		{
			Name:         "Dentist Elite Bucuresti",
			Category:     "Cabinet Stomatologic",
			Address:      "Sector 1, Bucuresti",
			Phone:        "+40711222333",
			Rating:       ptrF(4.9),
			ReviewsCount: ptrI(342),
			Reviews: []entity.Review{
				{Author: "Maria P.", Rating: 5, Text: "Cel mai bun cabinet stomatologic din Bucuresti! Medicii sunt extraordinari si nu am simtit absolut nicio durere."},
				{Author: "Andrei M.", Rating: 5, Text: "Am venit cu frica si am plecat zambind. Aparatele sunt ultra-moderne si personalul este extrem de profesionist."},
			},
		},
		{
			Name:         "Urban Cafe & Bistro",
			Category:     "Restaurant",
			Address:      "Sector 5, Bucuresti",
			Phone:        "+40755666777",
			Rating:       ptrF(4.4),
			ReviewsCount: ptrI(156),
			Reviews: []entity.Review{
				{Author: "Ana M.", Rating: 5, Text: "Locul perfect pentru brunch! Cafeaua e divina si atmosfera e super relaxanta. Ma intorc in fiecare weekend."},
			},
		},
		{
			Name:         "Sky Gym Fitness Sector 6",
			Category:     "Sala Fitness",
			Address:      "Sector 6, Bucuresti",
			Phone:        "+40766777888",
			Rating:       ptrF(4.5),
			ReviewsCount: ptrI(201),
			Reviews:      []entity.Review{},
		},
	}
}
