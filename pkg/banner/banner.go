package banner

import (
	"fmt"

	"chatjournal/pkg/config"
)

const banner = `
 ██████╗██╗  ██╗ █████╗ ████████╗     ██╗ ██████╗ ██╗   ██╗██████╗ ███╗   ██╗ █████╗ ██╗
██╔════╝██║  ██║██╔══██╗╚══██╔══╝     ██║██╔═══██╗██║   ██║██╔══██╗████╗  ██║██╔══██╗██║
██║     ███████║███████║   ██║        ██║██║   ██║██║   ██║██████╔╝██╔██╗ ██║███████║██║
██║     ██╔══██║██╔══██║   ██║   ██   ██║██║   ██║██║   ██║██╔══██╗██║╚██╗██║██╔══██║██║
╚██████╗██║  ██║██║  ██║   ██║   ╚█████╔╝╚██████╔╝╚██████╔╝██║  ██║██║ ╚████║██║  ██║███████╗
 ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝    ╚════╝  ╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═══╝╚═╝  ╚═╝╚══════╝
`

// Print prints the startup banner using the effective config.
func Print(eff config.EffectiveConfigResult, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", eff.Addr)
	fmt.Printf("DB Path:  %s\n", eff.DBPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	if eff.Source != "" {
		fmt.Printf("Config source: %s\n", eff.Source)
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST   /v1/messages          - Append a journal message")
	fmt.Println("GET    /v1/messages          - List (day=|from=&to=|kind=)")
	fmt.Println("DELETE /v1/messages/{id}     - Delete a message")
	fmt.Println("POST   /v1/compare/begin     - Start a before/after photo pair")
	fmt.Println("POST   /v1/compare/photo     - Attach the next pair photo")
	fmt.Println("GET    /v1/report            - Export the HTML report")
	fmt.Println("POST   /v1/journal/clear     - Clear all (X-Confirm-Action: clear_all)")
}
