package apps

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		app  AppRecord
		want string
	}{
		{"vscode", AppRecord{Name: "Visual Studio Code"}, CategoryDevelopment},
		{"github by url", AppRecord{Name: "Repos", URL: "https://github.com"}, CategoryDevelopment},
		{"slack by url", AppRecord{Name: "Work chat", URL: "https://slack.com"}, CategoryCommunication},
		{"discord", AppRecord{Name: "Discord"}, CategoryCommunication},
		{"figma", AppRecord{Name: "Figma"}, CategoryDesign},
		{"spotify", AppRecord{Name: "Spotify"}, CategoryEntertainment},
		{"chrome", AppRecord{Name: "Google Chrome"}, CategoryBrowser},
		{"paypal", AppRecord{Name: "PayPal"}, CategoryFinance},
		{"notion", AppRecord{Name: "Notion"}, CategoryProductivity},
		{"by tag", AppRecord{Name: "Thing", Tags: []string{"vpn"}}, CategoryUtilities},
		{"unknown", AppRecord{Name: "Zzyzx"}, CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.app); got != tt.want {
				t.Errorf("Categorize(%q) = %q, want %q", tt.app.Name, got, tt.want)
			}
		})
	}
}
