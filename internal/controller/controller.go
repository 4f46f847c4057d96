// Package controller holds helpers shared by the user and admin controllers.
package controller

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Flash categories understood by the page templates.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

var flashCategories = []string{FlashSuccess, FlashDanger, FlashInfo}

type Flash struct {
	Category string
	Message  string
}

// AddFlash queues a message for the next rendered page.
func AddFlash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, category)
	if err := session.Save(); err != nil {
		log.Error().Err(err).Msg("Failed to save flash message")
	}
}

func popFlashes(c *gin.Context) []Flash {
	session := sessions.Default(c)
	var out []Flash
	for _, category := range flashCategories {
		for _, v := range session.Flashes(category) {
			if msg, ok := v.(string); ok {
				out = append(out, Flash{Category: category, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		if err := session.Save(); err != nil {
			log.Error().Err(err).Msg("Failed to clear flash messages")
		}
	}
	return out
}

// Render executes a page template with pending flash messages attached.
// Flashes already present in data are shown after the queued ones.
func Render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	flashes := popFlashes(c)
	if extra, ok := data["Flashes"].([]Flash); ok {
		flashes = append(flashes, extra...)
	}
	data["Flashes"] = flashes
	c.HTML(status, page, data)
}
