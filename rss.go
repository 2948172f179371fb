package folio

import (
	"encoding/xml"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
)

type rssXML struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	XMLNSAtom string     `xml:"xmlns:atom,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	AtomLink      atomLink  `xml:"atom:link"`
	Image         rssImage  `xml:"image"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssImage struct {
	URL   string `xml:"url"`
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        rssGUID  `xml:"guid"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	Categories  []string `xml:"category"`
}

// buildRSS builds the feed for published posts, latest first. The build
// date is the date of the newest post, or now when there are none.
func (a *App) buildRSS(posts []content.BlogPost, now time.Time) rssXML {
	base := a.Config.URL
	blogURL := BuildURL(base, "blog")
	items := make([]rssItem, 0, len(posts))
	var newest time.Time
	for _, p := range posts {
		pubDate := ""
		if t := p.Time(); !t.IsZero() {
			pubDate = t.Format(time.RFC1123Z)
			if t.After(newest) {
				newest = t
			}
		}
		postURL := BuildURL(base, "blog", p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			GUID:        rssGUID{IsPermaLink: true, Value: postURL},
			Description: p.Description,
			PubDate:     pubDate,
			Categories:  p.Tags,
		})
	}
	if newest.IsZero() {
		newest = now
	}
	description := a.Config.Description
	if description == "" {
		description = "Writing by " + a.Config.Author
	}
	return rssXML{
		Version:   "2.0",
		XMLNSAtom: "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:         a.Config.Name,
			Link:          blogURL,
			Description:   description,
			Language:      "en",
			LastBuildDate: newest.UTC().Format(time.RFC1123Z),
			AtomLink: atomLink{
				Href: absURL(base, "/rss.xml"),
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Image: rssImage{
				URL:   absURL(base, "/favicon.svg"),
				Title: a.Config.Name,
				Link:  blogURL,
			},
			Items: items,
		},
	}
}

func (a *App) renderRSS(c echo.Context, posts []content.BlogPost) error {
	return renderXML(c, "application/rss+xml; charset=utf-8", a.buildRSS(posts, time.Now()))
}
