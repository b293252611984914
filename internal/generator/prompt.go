package generator

import (
	"fmt"
	"strings"

	"github.com/octobees/webdone/internal/entity"
)

// PromptData is the structured template object behind the site prompt:
// every slot the instruction can carry has a name here, so the contract
// is testable without calling the text service.
type PromptData struct {
	Name          string
	Category      string
	Address       string
	Phone         string
	Rating        float64
	ReviewsCount  int
	Reviews       []entity.Review
	StreetViewURL string
	ExtraInfo     string
	LogoURL       string
}

// PromptDataFromLead flattens a lead into prompt slots.
func PromptDataFromLead(lead entity.Lead) PromptData {
	data := PromptData{
		Name:      lead.Name,
		Category:  lead.Category,
		Address:   lead.Address,
		Phone:     lead.Phone,
		Reviews:   lead.Reviews,
		ExtraInfo: lead.ExtraInfo,
		LogoURL:   lead.LogoURL,
	}
	if lead.Rating != nil {
		data.Rating = *lead.Rating
	}
	if lead.ReviewsCount != nil {
		data.ReviewsCount = *lead.ReviewsCount
	}
	if lead.StreetViewURL != nil {
		data.StreetViewURL = *lead.StreetViewURL
	}
	return data
}

const sitePromptSystem = "Esti un Director Creativ de top. Raspunzi doar cu cod HTML complet, fara explicatii."

// BuildSitePrompt renders the full natural-language instruction for a
// one-page marketing site. The ordering of the blocks is part of the
// contract: facts, reviews, street view, extras, then the technical
// directives.
func BuildSitePrompt(data PromptData) (string, string) {
	var sb strings.Builder

	sb.WriteString("Creeaza un Landing Page de LUX, MOBILE-FIRST si vizual impresionant pentru:\n")
	sb.WriteString(fmt.Sprintf("Nume Afacere: %s\n", data.Name))
	sb.WriteString(fmt.Sprintf("Nisa: %s\n", data.Category))
	if data.Address != "" {
		sb.WriteString(fmt.Sprintf("Locatie: %s\n", data.Address))
	}
	sb.WriteString(fmt.Sprintf("Tel: %s\n", data.Phone))
	if data.Rating > 0 {
		sb.WriteString(fmt.Sprintf("Rating Google: %.1f stele (%d recenzii)\n", data.Rating, data.ReviewsCount))
	}
	sb.WriteString("Partener: WEB? DONE!\n")

	sb.WriteString(reviewsBlock(data))

	if data.StreetViewURL != "" {
		sb.WriteString(fmt.Sprintf("\nFOTO FATADA REALA: Include aceasta imagine a intrarii afacerii in sectiunea 'Despre noi': %s\n", data.StreetViewURL))
	}
	if data.LogoURL != "" {
		sb.WriteString(fmt.Sprintf("\nLOGO: Foloseste acest logo in header si favicon: %s\n", data.LogoURL))
	}
	if data.ExtraInfo != "" {
		sb.WriteString(fmt.Sprintf("\nINFO EXTRA DE LA CLIENT (include linkurile si detaliile acestea pe site): %s\n", data.ExtraInfo))
	}

	sb.WriteString(`
CERINTE TEHNICE OBLIGATORII:
1. FAVICON: include un favicon relevant (emoji sau icon link).
2. BRANDING "WEB? DONE!" in Footer: "Acest site a fost creat instant de WEB? DONE! --- N-ai site? Ai acum."
3. DIVERSITATE CROMATICA (FARA REPETAREA ACESTORA):
   - GRADINITA: culori pastelate vesele (Soft Cyan, Lemon, Mint). FARA NEGRU.
   - MEDICAL: Teal, Royal Blue sau Platinum Emerald.
   - RESTAURANT: Deep Burgundy, Slate Gold sau Forest Green.
   - FITNESS: Acid Yellow, Electric Indigo sau High-Contrast Monochrome.
   - GENERAL: evita combinatia de Orange si Black (este prea comuna). Cauta palete proaspete, premium.
4. SECTIUNI OBLIGATORII:
   - Hero cu rating-ul afacerii vizibil (badge trust).
   - Sectiune TESTIMONIALE (design premium, fiecare card are avatar cu initiale, stele, citat si nume autor).
   - Servicii/Features grid.
   - Contact cu buton "Suna Acum" proeminent pentru ` + data.Phone + `.
5. IMAGINI (OBLIGATORIU 8-10 POZE):
   - Hero Background Cinematic (full width).
   - Cel putin o poza Unsplash pentru FIECARE serviciu/feature.
   - O sectiune "Galerie" sau "Atmosfera" cu 4-6 imagini grid.
   - Foloseste keywords precise in engleza pentru Unsplash.
6. VISUAL RICHNESS:
   - Design VIBRANT, Image-First, cu spatii largi intre sectiuni.
   - Foloseste object-fit: cover si aspect-ratio moderne.
   - Adauga overlay-uri subtile de gradient peste imagini pentru contrast.
7. MOBILE-FIRST absolut.

COPYWRITING: Romana, bazat pe experienta reala din recenzii (daca clientii mentioneaza "fara durere", "preturi corecte", "echipa prietenoasa" - foloseste asta in headlines si USP-uri!).
CALITATE: Design de 10.000 EUR. Returneaza DOAR codul HTML complet (fara backticks). Incepe cu <!DOCTYPE html>.
`)

	return sitePromptSystem, sb.String()
}

func reviewsBlock(data PromptData) string {
	if len(data.Reviews) == 0 {
		return "\nNu exista recenzii disponibile, creeaza 3 testimoniale plauzibile pentru nisa lor.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\nRECENZII REALE GOOGLE (%.1f stele din %d recenzii - FOLOSESTE-LE IN DESIGN):\n", data.Rating, data.ReviewsCount))
	for _, r := range data.Reviews {
		sb.WriteString(fmt.Sprintf("- %s \"%s\" — %s\n", strings.Repeat("*", clampRating(r.Rating)), r.Text, r.Author))
	}
	sb.WriteString("\nINSTRUCTIUNE: Include o sectiune TESTIMONIALE cu aceste recenzii reale. Citatul trebuie sa fie mare, vizibil, cu stilizare 'quote' eleganta (ghilimele mari, fundal subtil, avatar placeholder cu initialele autorului).\n")
	return sb.String()
}

func clampRating(r int) int {
	if r < 1 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}

// maxEnrichInput caps how much of an existing document is sent back to
// the text service for the link-enrichment pass.
const maxEnrichInput = 12000

// BuildEnrichPrompt asks for a surgical link update on an existing page.
func BuildEnrichPrompt(html, extraInfo string) (string, string) {
	if len(html) > maxEnrichInput {
		html = html[:maxEnrichInput]
	}

	var sb strings.Builder
	sb.WriteString("Primesti un document HTML existent si informatii noi de contact/social media.\n")
	sb.WriteString("SARCINA: adauga sau actualizeaza DOAR linkurile de contact si social media (Facebook, Instagram, telefon, email, program).\n")
	sb.WriteString("NU modifica layout-ul, stilurile, sectiunile sau textele existente. Pastreaza documentul complet.\n")
	sb.WriteString("Returneaza DOAR codul HTML complet actualizat, fara backticks.\n\n")
	sb.WriteString("INFORMATII NOI:\n")
	sb.WriteString(extraInfo)
	sb.WriteString("\n\nDOCUMENT EXISTENT:\n")
	sb.WriteString(html)

	return "Esti un editor HTML atent. Faci doar modificari minime cerute.", sb.String()
}

// defaultPitchLine is the opening sentence used when the text service
// cannot produce a personalized one.
const defaultPitchLine = "Buna ziua! V-am pregatit un site de prezentare pentru afacerea dumneavoastra si as vrea sa vi-l arat pe scurt."

// BuildPitchPrompt asks for a one-sentence personalized call opening.
func BuildPitchPrompt(name, category string) (string, string) {
	user := fmt.Sprintf(
		"Scrie O SINGURA propozitie de deschidere pentru un apel telefonic de vanzari in limba romana, calda si naturala, adresata afacerii \"%s\" (domeniul: %s). Mentioneaza ca le-am construit deja un site de prezentare. Fara ghilimele, fara explicatii.",
		name, category,
	)
	return "Esti un agent de vanzari prietenos. Raspunzi doar cu propozitia ceruta.", user
}
