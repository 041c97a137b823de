package handlers

import (
	"net/http"
	"net/url"

	"github.com/ethpandaops/slotscope/templates"
	"github.com/ethpandaops/slotscope/types/models"
	"github.com/ethpandaops/slotscope/utils"
)

// Faucets will return the list of configured faucets
func Faucets(w http.ResponseWriter, r *http.Request) {
	var faucetsTemplateFiles = append(layoutTemplateFiles,
		"faucets/faucets.html",
	)
	var pageTemplate = templates.GetTemplate(faucetsTemplateFiles...)

	pageData := &models.FaucetsPageData{
		Faucets: make([]*models.FaucetsPageDataFaucet, 0, len(utils.Config.Frontend.Faucets)),
	}
	for _, faucetUrl := range utils.Config.Frontend.Faucets {
		faucet := &models.FaucetsPageDataFaucet{
			Url:  faucetUrl,
			Host: faucetUrl,
		}
		if parsed, err := url.Parse(faucetUrl); err == nil && parsed.Host != "" {
			faucet.Host = parsed.Host
		}
		pageData.Faucets = append(pageData.Faucets, faucet)
	}

	data := InitPageData(w, r, "faucets", "/faucets", "Faucets", faucetsTemplateFiles)
	data.Data = pageData
	w.Header().Set("Content-Type", "text/html")
	if handleTemplateError(w, r, "faucets.go", "Faucets", "", pageTemplate.ExecuteTemplate(w, "layout", data)) != nil {
		return // an error has occurred and was processed
	}
}
