package handlers

import "github.com/gin-gonic/gin"

// SubmitQuote godoc
// @ID          submitQuote
// @Summary     Submit the quote request form
// @Description Validates the quote request (name, address, services, message),
// @Description runs the abuse checks and mails the site owner.
// @Tags        Forms
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.QuoteRequest  true  "Quote form payload"
//
// @Success     200  {object} handlers.Response "Submission accepted"
// @Failure     400  {object} handlers.Response "Missing required fields or spam"
// @Failure     403  {object} handlers.Response "Invalid origin"
// @Failure     429  {object} handlers.Response "Cooldown active"
// @Failure     500  {object} handlers.Response "Mail dispatch failed"
// @Router      /quote [post]
func (h *Handlers) SubmitQuote(c *gin.Context) {
	h.submit(c, "quote", h.quote)
}

// QuoteRequest documents the quote form payload for Swagger.
type QuoteRequest struct {
	Name     string   `json:"name"     example:"Jan Peeters"`
	Email    string   `json:"email"    example:"jan@example.be"`
	Tel      string   `json:"tel"      example:"+32 470 12 34 56"`
	Street   string   `json:"street"   example:"Kerkstraat"`
	Number   string   `json:"number"   example:"12"`
	Bus      string   `json:"bus"      example:"A"`
	Zip      string   `json:"zip"      example:"2000"`
	City     string   `json:"city"     example:"Antwerpen"`
	Services []string `json:"services" example:"Dakwerken,Isolatie"`
	Message  string   `json:"message"  example:"Graag een offerte voor het dak."`
	Captcha  string   `json:"captcha"  example:"recaptcha-token"`
}
