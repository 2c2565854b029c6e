package apps

import (
	"regexp"
	"strings"
)

// Categories assigned by Categorize.
const (
	CategoryDevelopment   = "development"
	CategoryCommunication = "communication"
	CategoryProductivity  = "productivity"
	CategoryDesign        = "design"
	CategoryEntertainment = "entertainment"
	CategoryBrowser       = "browser"
	CategoryFinance       = "finance"
	CategoryUtilities     = "utilities"
	CategoryOther         = "other"
)

// categoryRules are checked in order; the first match wins.
var categoryRules = []struct {
	category string
	pattern  *regexp.Regexp
}{
	{CategoryDevelopment, regexp.MustCompile(`(?i)\b(code|vscode|visual studio|github|gitlab|jetbrains|intellij|goland|pycharm|terminal|iterm|docker|postman|xcode|sublime|vim|neovim|stack ?overflow)\b`)},
	{CategoryCommunication, regexp.MustCompile(`(?i)\b(slack|discord|teams|zoom|skype|telegram|whatsapp|signal|mail|gmail|outlook|messenger|meet)\b`)},
	{CategoryDesign, regexp.MustCompile(`(?i)\b(figma|sketch|photoshop|illustrator|canva|blender|gimp|inkscape|affinity)\b`)},
	{CategoryEntertainment, regexp.MustCompile(`(?i)\b(spotify|netflix|youtube|twitch|steam|music|hulu|disney|prime video|games?)\b`)},
	{CategoryBrowser, regexp.MustCompile(`(?i)\b(chrome|firefox|safari|edge|brave|opera|vivaldi|browser)\b`)},
	{CategoryFinance, regexp.MustCompile(`(?i)\b(bank|paypal|stripe|quickbooks|mint|budget|invoice|crypto|coinbase)\b`)},
	{CategoryProductivity, regexp.MustCompile(`(?i)\b(notion|docs|sheets|excel|word|office|calendar|trello|asana|jira|todoist|evernote|obsidian|drive|dropbox)\b`)},
	{CategoryUtilities, regexp.MustCompile(`(?i)\b(calculator|finder|explorer|settings|utility|utilities|1password|bitwarden|vpn|backup)\b`)},
}

// Categorize guesses a category from an app's name, url, description and tags.
func Categorize(app AppRecord) string {
	text := strings.Join(append([]string{app.Name, app.URL, app.Description}, app.Tags...), " ")
	// Split URL punctuation so "slack.com" matches \bslack\b
	text = strings.NewReplacer(".", " ", "/", " ", "-", " ", "_", " ").Replace(text)

	for _, rule := range categoryRules {
		if rule.pattern.MatchString(text) {
			return rule.category
		}
	}
	return CategoryOther
}
