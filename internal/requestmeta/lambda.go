package requestmeta

import (
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// FromLambdaRequest resolves metadata from an API Gateway v2 event. The
// gateway lowercases header names; the lookup stays case-insensitive for
// hand-built events in tests.
func FromLambdaRequest(evt events.APIGatewayV2HTTPRequest, geo *GeoResolver) Meta {
	ip := strings.TrimSpace(evt.RequestContext.HTTP.SourceIP)
	ua := strings.TrimSpace(evt.RequestContext.HTTP.UserAgent)
	if ua == "" {
		ua = strings.TrimSpace(lambdaHeader(evt.Headers, "user-agent"))
	}
	return Meta{
		IP:         ip,
		Country:    countryFor(lambdaHeader(evt.Headers, "cf-ipcountry"), geo, ip),
		UserAgent:  ua,
		Device:     DeviceClass(ua),
		ReceivedAt: time.Now().UTC(),
	}
}

func lambdaHeader(headers map[string]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
