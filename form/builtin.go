package form

// Default returns a catalog preloaded with the built-in farmer forms.
func Default() *Catalog {
	c := NewCatalog()
	for _, s := range []*Schema{
		CropInfo(),
		ProblemReport(),
		LocationInfo(),
		SoilInfo(),
	} {
		// IDs are distinct literals, registration cannot fail.
		_ = c.Register(s)
	}
	return c
}

// CropInfo is the basic crop information form.
func CropInfo() *Schema {
	return &Schema{
		ID:          "crop_info",
		Title:       "Tell me about your crop",
		TitleHindi:  "अपनी फसल के बारे में बताएं",
		Description: "This helps me give you better advice",
		Fields: []Field{
			{
				Name:       "crop",
				Type:       FieldTypeSelect,
				Label:      "Which crop are you growing?",
				LabelHindi: "आप कौन सी फसल उगा रहे हैं?",
				Required:   true,
				Options: []Option{
					{Value: "wheat", Label: "Wheat (गेहूं)"},
					{Value: "rice", Label: "Rice (चावल)"},
					{Value: "cotton", Label: "Cotton (कपास)"},
					{Value: "mustard", Label: "Mustard (सरसों)"},
					{Value: "sugarcane", Label: "Sugarcane (गन्ना)"},
					{Value: "maize", Label: "Maize (मक्का)"},
					{Value: "soybean", Label: "Soybean (सोयाबीन)"},
					{Value: "groundnut", Label: "Groundnut (मूंगफली)"},
					{Value: "potato", Label: "Potato (आलू)"},
					{Value: "onion", Label: "Onion (प्याज)"},
					{Value: "tomato", Label: "Tomato (टमाटर)"},
					{Value: "other", Label: "Other (अन्य)"},
				},
			},
			{
				Name:       "crop_stage",
				Type:       FieldTypeRadio,
				Label:      "What stage is your crop in?",
				LabelHindi: "आपकी फसल किस अवस्था में है?",
				Required:   true,
				Options: []Option{
					{Value: "sowing", Label: "Just sowed / Sowing (बुवाई)"},
					{Value: "germination", Label: "Germination (अंकुरण)"},
					{Value: "vegetative", Label: "Growing / Vegetative (वानस्पतिक)"},
					{Value: "flowering", Label: "Flowering (फूल आना)"},
					{Value: "fruiting", Label: "Fruiting (फल लगना)"},
					{Value: "harvest", Label: "Ready for harvest (कटाई)"},
				},
			},
			{
				Name:       "land_size",
				Type:       FieldTypeSlider,
				Label:      "Farm size (acres)",
				LabelHindi: "खेत का आकार (एकड़)",
				MinValue:   0.25,
				MaxValue:   100,
				Step:       0.25,
				Required:   false,
			},
		},
		SubmitAction:     "update_context",
		SubmitLabel:      "Save",
		SubmitLabelHindi: "सहेजें",
	}
}

// ProblemReport collects symptoms for crop issue diagnosis.
func ProblemReport() *Schema {
	return &Schema{
		ID:         "problem_report",
		Title:      "What problem are you facing?",
		TitleHindi: "आपको क्या समस्या है?",
		Fields: []Field{
			{
				Name:       "problem_type",
				Type:       FieldTypeRadio,
				Label:      "Type of problem",
				LabelHindi: "समस्या का प्रकार",
				Required:   true,
				Options: []Option{
					{Value: "pest", Label: "Insects/Pests (कीड़े)"},
					{Value: "disease", Label: "Disease (रोग)"},
					{Value: "nutrient", Label: "Nutrient deficiency (पोषक तत्व की कमी)"},
					{Value: "water", Label: "Water problem (पानी की समस्या)"},
					{Value: "weed", Label: "Weeds (खरपतवार)"},
					{Value: "other", Label: "Other (अन्य)"},
				},
			},
			{
				Name:       "symptoms",
				Type:       FieldTypeCheckbox,
				Label:      "What do you see? (Select all that apply)",
				LabelHindi: "आप क्या देख रहे हैं? (सभी चुनें)",
				Required:   true,
				Options: []Option{
					{Value: "yellow_leaves", Label: "Yellow leaves (पीले पत्ते)"},
					{Value: "brown_spots", Label: "Brown/black spots (भूरे/काले धब्बे)"},
					{Value: "wilting", Label: "Wilting/drooping (मुरझाना)"},
					{Value: "holes", Label: "Holes in leaves (पत्तों में छेद)"},
					{Value: "insects_visible", Label: "Insects visible (कीड़े दिखाई दे रहे)"},
					{Value: "white_powder", Label: "White powder/fungus (सफेद पाउडर/फफूंद)"},
					{Value: "stunted", Label: "Stunted growth (विकास रुका)"},
					{Value: "root_damage", Label: "Root damage (जड़ों में नुकसान)"},
				},
			},
			{
				Name:       "affected_area",
				Type:       FieldTypeRadio,
				Label:      "How much of your crop is affected?",
				LabelHindi: "आपकी कितनी फसल प्रभावित है?",
				Required:   true,
				Options: []Option{
					{Value: "few_plants", Label: "Few plants (कुछ पौधे)"},
					{Value: "one_area", Label: "One area/patch (एक क्षेत्र)"},
					{Value: "half", Label: "About half (लगभग आधा)"},
					{Value: "most", Label: "Most of the field (अधिकांश खेत)"},
				},
			},
		},
		SubmitAction:     "diagnose_crop_issue",
		SubmitLabel:      "Get Help",
		SubmitLabelHindi: "मदद लें",
	}
}

// LocationInfo collects the farm location.
func LocationInfo() *Schema {
	return &Schema{
		ID:         "location_info",
		Title:      "Where is your farm?",
		TitleHindi: "आपका खेत कहाँ है?",
		Fields: []Field{
			{
				Name:       "state",
				Type:       FieldTypeSelect,
				Label:      "State",
				LabelHindi: "राज्य",
				Required:   true,
				Options: []Option{
					{Value: "punjab", Label: "Punjab (पंजाब)"},
					{Value: "haryana", Label: "Haryana (हरियाणा)"},
					{Value: "uttar_pradesh", Label: "Uttar Pradesh (उत्तर प्रदेश)"},
					{Value: "madhya_pradesh", Label: "Madhya Pradesh (मध्य प्रदेश)"},
					{Value: "rajasthan", Label: "Rajasthan (राजस्थान)"},
					{Value: "gujarat", Label: "Gujarat (गुजरात)"},
					{Value: "maharashtra", Label: "Maharashtra (महाराष्ट्र)"},
					{Value: "karnataka", Label: "Karnataka (कर्नाटक)"},
					{Value: "andhra_pradesh", Label: "Andhra Pradesh (आंध्र प्रदेश)"},
					{Value: "telangana", Label: "Telangana (तेलंगाना)"},
					{Value: "tamil_nadu", Label: "Tamil Nadu (तमिल नाडु)"},
					{Value: "kerala", Label: "Kerala (केरल)"},
					{Value: "west_bengal", Label: "West Bengal (पश्चिम बंगाल)"},
					{Value: "bihar", Label: "Bihar (बिहार)"},
					{Value: "odisha", Label: "Odisha (ओडिशा)"},
					{Value: "other", Label: "Other (अन्य)"},
				},
			},
			{
				Name:        "district",
				Type:        FieldTypeText,
				Label:       "District (optional)",
				LabelHindi:  "जिला (वैकल्पिक)",
				Required:    false,
				Placeholder: "Enter district name",
			},
		},
		SubmitAction:     "update_context",
		SubmitLabel:      "Save Location",
		SubmitLabelHindi: "स्थान सहेजें",
	}
}

// SoilInfo collects soil type details.
func SoilInfo() *Schema {
	return &Schema{
		ID:         "soil_info",
		Title:      "Tell me about your soil",
		TitleHindi: "अपनी मिट्टी के बारे में बताएं",
		Fields: []Field{
			{
				Name:       "soil_type",
				Type:       FieldTypeRadio,
				Label:      "What type of soil do you have?",
				LabelHindi: "आपके पास किस प्रकार की मिट्टी है?",
				Required:   true,
				Options: []Option{
					{Value: "alluvial", Label: "Alluvial (जलोढ़)"},
					{Value: "black", Label: "Black/Cotton soil (काली मिट्टी)"},
					{Value: "red", Label: "Red soil (लाल मिट्टी)"},
					{Value: "sandy", Label: "Sandy (रेतीली)"},
					{Value: "clay", Label: "Clay (चिकनी मिट्टी)"},
					{Value: "loamy", Label: "Loamy (दोमट)"},
					{Value: "dont_know", Label: "Don't know (पता नहीं)"},
				},
			},
			{
				Name:       "soil_test_done",
				Type:       FieldTypeRadio,
				Label:      "Have you done a soil test recently?",
				LabelHindi: "क्या आपने हाल ही में मिट्टी परीक्षण कराया है?",
				Required:   false,
				Options: []Option{
					{Value: "yes_recent", Label: "Yes, in last 6 months"},
					{Value: "yes_old", Label: "Yes, more than 6 months ago"},
					{Value: "no", Label: "No"},
				},
			},
		},
		SubmitAction:     "update_context",
		SubmitLabel:      "Save",
		SubmitLabelHindi: "सहेजें",
	}
}
