package repository

import "boothStore/models"

var yesNoTBC = []string{"Yes", "No", "To be confirmed"}

func briefText(id, label, placeholder string, required bool) models.BriefQuestion {
	return models.BriefQuestion{Id: id, Label: label, Type: models.BriefText, Placeholder: placeholder, Required: required}
}

func briefTextarea(id, label, placeholder string, required bool) models.BriefQuestion {
	return models.BriefQuestion{Id: id, Label: label, Type: models.BriefTextarea, Placeholder: placeholder, Required: required}
}

func briefChoice(id, label string, options ...string) models.BriefQuestion {
	return models.BriefQuestion{Id: id, Label: label, Type: models.BriefSelect, Options: append([]string(nil), options...)}
}

// BriefSections returns the congress brief questionnaire in display order.
func BriefSections() []models.BriefSection {
	return []models.BriefSection{
		{
			Id:    "event-overview",
			Title: "Event Overview",
			Questions: []models.BriefQuestion{
				briefText("event-name", "Event", "e.g. EHA 2026", true),
				briefText("event-dates", "Event Dates", "e.g. 11 – 14 June 2026", true),
				briefText("venue", "Venue (City, Country)", "e.g. Stockholm, Sweden", true),
				briefText("booth-location", "Booth space location, number & floor plan", "e.g. C2", false),
				briefText("booth-dimensions", "Booth space dimensions", "e.g. 15m x 20m (300 sqm)", false),
				briefText("booth-split", "Commercial / Medical & R&D split", "e.g. 60% Commercial, 40% Medical & R&D", false),
			},
		},
		{
			Id:    "congress-strategy",
			Title: "Congress Strategy",
			Questions: []models.BriefQuestion{
				briefText("therapy-area", "Primary therapy area / brand", "e.g. Haematology, Carvykti", true),
				briefText("target-audience", "Target audience", "e.g. Haematologists, oncologists, nurses", true),
				briefTextarea("key-messages", "Key messages", "List the primary messages you want visitors to take away", true),
				briefTextarea("objectives", "Primary objectives", "e.g. Drive HCP awareness, generate leads, support launch", false),
				briefChoice("budget", "Estimated budget range",
					"Under €50k", "€50k – €100k", "€100k – €250k", "€250k – €500k", "Over €500k", "To be confirmed"),
			},
		},
		{
			Id:    "design-wishes",
			Title: "Design Wishes & Structures",
			Questions: []models.BriefQuestion{
				{
					Id:    "preferred-structures",
					Label: "Preferred structures",
					Type:  models.BriefCheckbox,
					Options: []string{
						"Tunnel Totem", "Short Totem", "Totem with Seating", "LED Freestanding Portrait Totem",
						"VR Headset Desk", "Tables with Upholstered Stools", "Island Booth up to 100 sqm", "Island Booth up to 180 sqm",
					},
				},
				briefTextarea("colour-preference", "Colour / brand preferences", "e.g. J&J red and white palette, avoid dark backgrounds", false),
				briefChoice("open-enclosed", "Preferred booth feel",
					"Open: welcoming, easy to enter", "Semi-open: balance of open and private", "Enclosed: meeting-room focused"),
				briefChoice("meeting-rooms", "Meeting rooms required?", yesNoTBC...),
				briefChoice("storage", "Storage required?", yesNoTBC...),
				briefTextarea("previous-feedback", "Feedback on previous booth design", "What worked well? What would you change?", false),
			},
		},
		{
			Id:    "compliance",
			Title: "Compliance & Regulations",
			Questions: []models.BriefQuestion{
				briefTextarea("local-compliance", "Local compliance regulations", "Detail any country-specific rules for booth content, claims, or activities", false),
				briefText("compliance-contact", "Local compliance contact name & details", "Name, email or team", false),
				{
					Id:          "organiser-deadline",
					Label:       "Show organiser approval deadline",
					Type:        models.BriefText,
					Placeholder: "e.g. 1 March 2026",
					Hint:        "This information may not be available at this stage.",
				},
				briefTextarea("content-restrictions", "Restricted claims or content notes", "Any claims, images, or messaging that cannot be displayed", false),
			},
		},
		{
			Id:    "must-haves",
			Title: "Must-Have Features",
			Questions: []models.BriefQuestion{
				briefTextarea("av-requirements", "AV / screen requirements", `e.g. 2× 55" screens, video loop, presentation capability`, false),
				briefChoice("demo-stations", "Demo stations required?", yesNoTBC...),
				briefChoice("vr-experience", "VR / interactive experience required?", yesNoTBC...),
				briefTextarea("catering", "Catering / hospitality requirements", "e.g. Coffee bar, water station, branded cups", false),
				briefChoice("lead-capture", "Lead capture mechanism required?",
					"Yes: badge scanning", "Yes: tablet form", "Yes: business cards", "No", "To be confirmed"),
				briefTextarea("accessibility", "Accessibility requirements", "e.g. Wheelchair access, hearing loop, large print materials", false),
			},
		},
		{
			Id:    "visual",
			Title: "Visual Inspiration & Engagement",
			Questions: []models.BriefQuestion{
				briefText("brand-guidelines", "Brand guideline version / reference", "e.g. J&J Brand Standards v3.2, link or document name", false),
				briefTextarea("engagement-activities", "Planned engagement activities", "e.g. VR demos, patient journey experience, live presentations", false),
				briefTextarea("competitor-refs", "Competitor or reference booth notes", "Booths you admire or want to differentiate from", false),
				briefChoice("mood", "Overall mood / feel",
					"Clinical & precise", "Premium & aspirational", "Energetic & bold", "Approachable & warm", "To be confirmed"),
				briefTextarea("additional-notes", "Any other notes or requests", "Anything else the design team should know", false),
			},
		},
	}
}
