package server

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Project is one card in the projects section.
type Project struct {
	Title       string
	Description string
	Tags        []string
}

// TimelineItem is one entry of the experience or education timeline.
type TimelineItem struct {
	Title        string
	Organization string
	StartDate    string
	EndDate      string
	LogoPath     string
	BulletPoints []string
}

// Stat is a counter in the hero section, e.g. "500+" alerts triaged.
type Stat struct {
	Label string
	Value string
}

// Content is the copy rendered on the home page.
type Content struct {
	Name       string
	Title      string
	AboutMe    string // markdown
	Projects   []Project
	Stats      []Stat
	Metrics    []Stat
	Experience []TimelineItem
	Education  []TimelineItem
}

// AboutHTML renders the about section markdown.
func (c Content) AboutHTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(c.AboutMe), &buf); err != nil {
		return "", err
	}
	return template.HTML(bluemonday.UGCPolicy().SanitizeBytes(buf.Bytes())), nil
}

var DefaultContent = Content{
	Name:  "Zach Kordas-Potter",
	Title: "Security Operations Analyst",
	AboutMe: `I love building software that's both useful and fun, and I'm always curious about how things work behind the scenes.

Most of my projects start with a simple idea and turn into a chance to learn something new, whether it's
**detection engineering**, exploring a different language, or solving tricky problems.

When I'm not at a keyboard, you'll usually find me training Muay Thai or shooting pool with friends.`,
	Projects: []Project{
		{
			Title:       "Terminal Mail Client",
			Description: "A terminal-based email client built in Go with fuzzy-finder capabilities using the Charmbracelet TUI framework and go-imap.",
			Tags:        []string{"Go", "TUI", "IMAP"},
		},
		{
			Title:       "Terminal Music Streamer",
			Description: "A terminal music streaming application built in Go, leveraging yt-dlp and mpv for YouTube Music playback from the command line.",
			Tags:        []string{"Go", "TUI"},
		},
		{
			Title:       "Game Recommender",
			Description: "A machine learning web application that uses TF-IDF vectorization and cosine similarity to recommend games based on content analysis.",
			Tags:        []string{"Python", "ML"},
		},
		{
			Title:       "This Portfolio",
			Description: "A server-rendered portfolio built with Go, Gin and HTMX, with a contact form validated field by field.",
			Tags:        []string{"Go", "Gin", "HTMX"},
		},
	},
	Stats: []Stat{
		{Label: "Security Alerts Triaged", Value: "500+"},
		{Label: "Detection Rules Written", Value: "40+"},
		{Label: "Certifications", Value: "3"},
	},
	Metrics: []Stat{
		{Label: "Mean Time to Detect", Value: "15%"},
		{Label: "False Positive Reduction", Value: "30%"},
		{Label: "Incidents Resolved", Value: "120"},
	},
	Experience: []TimelineItem{
		{
			Title:        "Presentation Expert",
			Organization: "Target",
			StartDate:    "Aug 2023",
			EndDate:      "Present",
			LogoPath:     "images/TargetLogo.jpg",
			BulletPoints: []string{
				"Executed over 300 merchandising transitions on tight timelines by organizing team workflows",
				"Boosted operational efficiency by managing backroom inventory processes",
			},
		},
		{
			Title:        "Manager",
			Organization: "Jasons Catered Events",
			StartDate:    "Aug 2016",
			EndDate:      "Present",
			LogoPath:     "images/jasonsCateringLogo.png",
			BulletPoints: []string{
				"Supported event technology by troubleshooting AV equipment and digital order tracking systems",
				"Maintained supply inventory and coordinated timely delivery between venues",
			},
		},
	},
	Education: []TimelineItem{
		{
			Title:        "Bachelor of Computer Science",
			Organization: "Western Governors University",
			StartDate:    "Sept 2019",
			EndDate:      "May 2023",
			LogoPath:     "images/WGU-logo.png",
			BulletPoints: []string{
				"Graduated Magna Cum Laude with 3.8 GPA",
				"Relevant coursework: Data Structures, Algorithms, Web Development",
			},
		},
		{
			Title:        "Project Management",
			Organization: "CompTIA",
			StartDate:    "July 2022",
			EndDate:      "Present",
			LogoPath:     "images/comptiaCert.png",
			BulletPoints: []string{
				"Certified in agile project management methodology",
			},
		},
	},
}
