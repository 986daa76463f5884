package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/eviterin/thegate/internal/constants"
)

func main() {
	base := os.Getenv("THEGATE_HEALTHCHECK_URL")
	if base == "" {
		base = "http://127.0.0.1:8080"
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf(constants.PathVersionFmt, base))
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
	os.Exit(0)
}
