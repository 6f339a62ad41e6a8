package nhsp

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"

	"shiftwatch/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

func newProbeClient() *resty.Client {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		panic(err)
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/nhsp/probe")

	return client
}

// ProbePortal checks that the portal answers at all before a browser
// is launched for it. Startup retries chew on this instead of a full
// Chrome boot when the portal is down.
func ProbePortal(ctx context.Context, client *resty.Client, portalURL string) error {
	res, err := client.R().
		SetContext(ctx).
		Get(portalURL)
	if err != nil {
		return fmt.Errorf("portal unreachable: %w", err)
	}
	if res.StatusCode() >= 400 {
		return fmt.Errorf("portal answered %s", res.Status())
	}
	return nil
}
