package render

import "github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"

// Messages is the string table of one interface language.
type Messages struct {
	Sections map[entities.Route]string

	FilterProphet string
	FilterTopic   string
	FilterSource  string
	AllProphets   string
	AllTopics     string
	AllSources    string

	Found   string
	Prayers string
	Shown   string
	Tip     string

	CopyArabic string
	CopyFull   string
	Share      string
	Save       string
	Saved      string
	Retry      string
	Reset      string
	Close      string
	Open       string

	ShowAll        string
	BrowseProphets string
	BrowseTopics   string
	Detail         string
	FeaturedBadge  string

	Translit   string
	English    string
	Turkish    string
	Tags       string
	Reflection string
	Meaning    string
	Sources    string

	LoadingTitle   string
	LoadingDesc    string
	ErrorTitle     string
	ErrorDesc      string
	NoResultsTitle string
	NoResultsDesc  string
	NoFavTitle     string
	NoFavDesc      string
	NotFoundTitle  string

	AboutTitle       string
	AboutDesc        string
	AboutDisclaimers []string
	AboutNotes       string
	AboutSources     string
	AboutSourcesDesc string
	AboutDataset     string

	Daily          string
	Featured       string
	RecentlyViewed string
	PopularTopics  string

	Quran      string
	TaughtTo   string // format with the companion name
	Settings   string
	Theme      string
	Language   string
	FontSize   string
	Onboarding []OnboardingStep
	Prev       string
	Next       string
	Finish     string
	Skip       string
}

// OnboardingStep is the content of one onboarding step.
type OnboardingStep struct {
	Title string
	Body  string
}

var messages = map[string]*Messages{
	entities.LangEN: {
		Sections: map[entities.Route]string{
			entities.RouteHome:      "Home",
			entities.RouteProphets:  "Prophets",
			entities.RouteTopics:    "Topics",
			entities.RouteFavorites: "Favorites",
			entities.RouteAbout:     "About",
			entities.RouteDetail:    "Dua",
		},
		FilterProphet: "Prophet",
		FilterTopic:   "Topic",
		FilterSource:  "Source",
		AllProphets:   "All Prophets",
		AllTopics:     "All Topics",
		AllSources:    "All Sources",

		Found:   "found",
		Prayers: "prayers",
		Shown:   "shown",
		Tip:     "Tip",

		CopyArabic: "Copy Arabic",
		CopyFull:   "Copy Full",
		Share:      "Share",
		Save:       "Save",
		Saved:      "Saved",
		Retry:      "Retry",
		Reset:      "Reset",
		Close:      "Close",
		Open:       "Open",

		ShowAll:        "Show All",
		BrowseProphets: "Browse Prophets",
		BrowseTopics:   "Browse Topics",
		Detail:         "Detail",
		FeaturedBadge:  "Featured",

		Translit:   "Transliteration",
		English:    "English",
		Turkish:    "Türkçe",
		Tags:       "Tags",
		Reflection: "Reflection & Context",
		Meaning:    "Meaning",
		Sources:    "Sources",

		LoadingTitle:   "Loading…",
		LoadingDesc:    "Preparing the collection.",
		ErrorTitle:     "Couldn’t load data",
		ErrorDesc:      "Please check your connection or try again.",
		NoResultsTitle: "No results",
		NoResultsDesc:  "Try a different spelling, a topic tag, or search in Arabic.",
		NoFavTitle:     "No favorites yet",
		NoFavDesc:      "Save duas you want to revisit. Favorites will appear here.",
		NotFoundTitle:  "This dua is no longer in the collection.",

		AboutTitle: "About & Sources",
		AboutDesc:  "This is a static collection. Always verify references.",
		AboutDisclaimers: []string{
			"Translations can vary; consult trusted sources for study.",
			"Hadith grading depends on scholarly methodology; check the referenced collections.",
			"This tool is a convenience and does not replace scholarly guidance.",
		},
		AboutNotes:       "Notes",
		AboutSources:     "Sources",
		AboutSourcesDesc: "Source links (if included) live inside each entry. The detail view displays them.",
		AboutDataset:     "Dataset",

		Daily:          "Daily Dua",
		Featured:       "Featured & Recent",
		RecentlyViewed: "Recently Viewed",
		PopularTopics:  "Popular Topics",

		Quran:    "Qur'an",
		TaughtTo: "taught to %s",
		Settings: "Settings",
		Theme:    "Theme",
		Language: "Language",
		FontSize: "Font size",
		Onboarding: []OnboardingStep{
			{Title: "Welcome", Body: "A collection of supplications made by the prophets, from the Qur'an and the Sunnah."},
			{Title: "Search", Body: "Send any word to search in English, Turkish, transliteration or Arabic. Accents don't matter."},
			{Title: "Filter", Body: "Browse by prophet, topic or source. Filters combine, and Reset clears them."},
			{Title: "Save & share", Body: "Save duas to Favorites, copy the full text, or share a link to a single dua."},
		},
		Prev:   "Back",
		Next:   "Next",
		Finish: "Finish",
		Skip:   "Skip",
	},
	entities.LangTR: {
		Sections: map[entities.Route]string{
			entities.RouteHome:      "Ana Sayfa",
			entities.RouteProphets:  "Peygamberler",
			entities.RouteTopics:    "Konular",
			entities.RouteFavorites: "Favoriler",
			entities.RouteAbout:     "Hakkında",
			entities.RouteDetail:    "Dua",
		},
		FilterProphet: "Peygamber",
		FilterTopic:   "Konu",
		FilterSource:  "Kaynak",
		AllProphets:   "Tüm Peygamberler",
		AllTopics:     "Tüm Konular",
		AllSources:    "Tüm Kaynaklar",

		Found:   "bulundu",
		Prayers: "dua",
		Shown:   "gösteriliyor",
		Tip:     "İpucu",

		CopyArabic: "Arapçayı Kopyala",
		CopyFull:   "Tamamını Kopyala",
		Share:      "Paylaş",
		Save:       "Kaydet",
		Saved:      "Kaydedildi",
		Retry:      "Tekrar Dene",
		Reset:      "Sıfırla",
		Close:      "Kapat",
		Open:       "Aç",

		ShowAll:        "Tümünü Göster",
		BrowseProphets: "Peygamberler",
		BrowseTopics:   "Konular",
		Detail:         "Detay",
		FeaturedBadge:  "Öne Çıkan",

		Translit:   "Okunuş",
		English:    "İngilizce",
		Turkish:    "Türkçe",
		Tags:       "Etiketler",
		Reflection: "Bağlam & Tefekkür",
		Meaning:    "Anlam",
		Sources:    "Kaynaklar",

		LoadingTitle:   "Yükleniyor…",
		LoadingDesc:    "Koleksiyon hazırlanıyor.",
		ErrorTitle:     "Veri yüklenemedi",
		ErrorDesc:      "Bağlantınızı kontrol edin veya tekrar deneyin.",
		NoResultsTitle: "Sonuç yok",
		NoResultsDesc:  "Farklı yazım deneyin, etiket seçin veya Arapça arayın.",
		NoFavTitle:     "Henüz favori yok",
		NoFavDesc:      "Tekrar okumak istediğiniz duaları kaydedin. Favoriler burada görünür.",
		NotFoundTitle:  "Bu dua artık koleksiyonda değil.",

		AboutTitle: "Hakkında & Kaynaklar",
		AboutDesc:  "Bu koleksiyon tamamen statiktir. Referansları mutlaka doğrulayın.",
		AboutDisclaimers: []string{
			"Mealler değişebilir; ders için güvenilir kaynaklara başvurun.",
			"Hadis sıhhat değerlendirmeleri yönteme göre değişebilir; kaynakları kontrol edin.",
			"Bu araç kolaylık içindir; ilim ehlinin rehberliğinin yerine geçmez.",
		},
		AboutNotes:       "Notlar",
		AboutSources:     "Kaynaklar",
		AboutSourcesDesc: "Her dua kaydı için (varsa) kaynak bağlantıları kaydın içinde bulunur. Detay görünümü bunları gösterir.",
		AboutDataset:     "Veri dosyası",

		Daily:          "Günün Duası",
		Featured:       "Öne Çıkanlar & Son Görüntülenenler",
		RecentlyViewed: "Son Görüntülenenler",
		PopularTopics:  "Popüler Konular",

		Quran:    "Kur'an",
		TaughtTo: "%s kişisine öğretilen",
		Settings: "Ayarlar",
		Theme:    "Tema",
		Language: "Dil",
		FontSize: "Yazı boyutu",
		Onboarding: []OnboardingStep{
			{Title: "Hoş geldiniz", Body: "Kur'an ve Sünnet'ten peygamberlerin dualarından oluşan bir koleksiyon."},
			{Title: "Arama", Body: "Türkçe, İngilizce, okunuş veya Arapça aramak için herhangi bir kelime gönderin. Şapkalı harfler önemli değil."},
			{Title: "Filtreler", Body: "Peygamber, konu veya kaynağa göre gezin. Filtreler birleşir, Sıfırla hepsini temizler."},
			{Title: "Kaydet & paylaş", Body: "Duaları Favorilere kaydedin, tam metni kopyalayın veya tek bir duanın bağlantısını paylaşın."},
		},
		Prev:   "Geri",
		Next:   "İleri",
		Finish: "Bitir",
		Skip:   "Atla",
	},
}

// For returns the string table of lang, English for unknown languages.
func For(lang string) *Messages {
	if m, ok := messages[lang]; ok {
		return m
	}
	return messages[entities.LangEN]
}

// Section returns the localized name of a route.
func (m *Messages) Section(r entities.Route) string {
	if s, ok := m.Sections[r]; ok {
		return s
	}
	return m.Sections[entities.RouteHome]
}
