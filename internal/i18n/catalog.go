package i18n

// User-facing strings. Each entry has exactly one translation pair.
var (
	Greeting = Text{
		EN: "Welcome to LEGALS\nYour AI Legal Assistant\n\nStart by describing your legal situation...\nExample: 'Someone damaged my property...'",
		HI: "LEGALS में आपका स्वागत है\nआपका AI कानूनी सहायक\n\nअपनी कानूनी स्थिति का वर्णन करके शुरू करें...\nउदाहरण: 'किसी ने मेरी संपत्ति को नुकसान पहुंचाया...'",
	}

	ServiceErrorMessage = Text{
		EN: "I apologize, but I encountered an error processing your legal query. Please try again or consult with a qualified lawyer.",
		HI: "क्षमा करें, आपके कानूनी प्रश्न को संसाधित करते समय एक त्रुटि हुई। कृपया पुनः प्रयास करें या किसी योग्य वकील से परामर्श लें।",
	}
	NetworkErrorMessage = Text{
		EN: "Network error. Please check your connection and try again.",
		HI: "नेटवर्क त्रुटि। कृपया अपना कनेक्शन जांचें और पुनः प्रयास करें।",
	}

	DefaultDisclaimers = []Text{
		{
			EN: "This system provides preliminary legal information only.",
			HI: "यह प्रणाली केवल प्रारंभिक कानूनी जानकारी प्रदान करती है।",
		},
		{
			EN: "Consult qualified lawyers for actionable legal advice.",
			HI: "कार्यात्मक कानूनी सलाह के लिए योग्य वकीलों से सलाह लें।",
		},
	}

	AppTitle       = Text{EN: "Legal AI Assistant", HI: "कानूनी AI सहायक"}
	StatusReady    = Text{EN: "Online", HI: "तैयार है"}
	StatusBusy     = Text{EN: "Analyzing", HI: "विश्लेषण जारी"}
	PendingNotice  = Text{EN: "Analyzing legal situation...", HI: "आपकी कानूनी स्थिति का विश्लेषण कर रहे हैं..."}
	PendingHint    = Text{EN: "This may take 30-60 seconds", HI: "इसमें 30-60 सेकंड का समय लग सकता है"}
	InputHint      = Text{EN: "Describe your legal situation in detail...", HI: "अपनी कानूनी स्थिति का विस्तार से वर्णन करें..."}
	InputFooter    = Text{EN: "Preliminary legal information only. Consult qualified lawyers for actionable advice.", HI: "केवल प्रारंभिक कानूनी जानकारी। कार्यात्मक सलाह के लिए योग्य वकीलों से सलाह लें।"}
	VoiceNotice    = Text{EN: "Voice input will be implemented in the next phase", HI: "वॉयस इनपुट अगले चरण में लागू किया जाएगा"}
	SenderUser     = Text{EN: "You", HI: "आप"}
	SenderBot      = Text{EN: "LEGALS", HI: "LEGALS"}
	ErrorLabel     = Text{EN: "Error", HI: "त्रुटि"}
	ConfidenceText = Text{EN: "Confidence", HI: "विश्वास स्तर"}
	ProcessingText = Text{EN: "Processing time", HI: "प्रसंस्करण समय"}

	SectionEntities    = Text{EN: "Identified Elements", HI: "पहचाने गए तत्व"}
	SectionLaws        = Text{EN: "Applicable Laws", HI: "लागू कानून"}
	SectionGuidance    = Text{EN: "Legal Guidance", HI: "कानूनी मार्गदर्शन"}
	SectionDisclaimers = Text{EN: "Important Disclaimers", HI: "महत्वपूर्ण अस्वीकरण"}

	QuickActions = []Text{
		{EN: "Ask Follow-up", HI: "अनुवर्ती प्रश्न पूछें"},
		{EN: "Save Response", HI: "प्रतिक्रिया सहेजें"},
		{EN: "Find Lawyer", HI: "वकील खोजें"},
	}
)

// Hindi labels for the entity categories the analysis service is known to emit.
var categoryLabelsHI = map[string]string{
	"persons":       "व्यक्ति",
	"objects":       "वस्तुएं",
	"locations":     "स्थान",
	"actions":       "कार्य",
	"intentions":    "इरादे",
	"circumstances": "परिस्थितियां",
	"relationships": "संबंध",
}

// CategoryLabelHI returns the Hindi label for a known entity category.
func CategoryLabelHI(category string) (string, bool) {
	label, ok := categoryLabelsHI[category]
	return label, ok
}
