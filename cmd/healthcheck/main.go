// Command healthcheck probes an HTTP endpoint until it reports healthy or
// the attempt budget runs out. It exits 0 on success and 1 on failure, so
// deployment scripts can gate on it directly.
package main

import (
	"flag"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"serverless-adapter-kit/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	url := flag.String("url", cfg.Health.URL, "endpoint to probe")
	expectStatus := flag.Int("status", cfg.Health.ExpectStatus, "expected status code")
	expectBody := flag.String("body", cfg.Health.ExpectBody, "substring the body must contain (optional)")
	attempts := flag.Int("attempts", cfg.Health.Attempts, "number of attempts before giving up")
	delay := flag.Duration("delay", time.Duration(cfg.Health.DelayMS)*time.Millisecond, "fixed delay between attempts")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	for attempt := 1; attempt <= *attempts; attempt++ {
		if probe(client, *url, *expectStatus, *expectBody, attempt) {
			logrus.WithFields(logrus.Fields{
				"url":     *url,
				"attempt": attempt,
			}).Info("Endpoint healthy")
			os.Exit(0)
		}

		if attempt < *attempts {
			time.Sleep(*delay)
		}
	}

	logrus.WithFields(logrus.Fields{
		"url":      *url,
		"attempts": *attempts,
	}).Error("Endpoint did not become healthy")
	os.Exit(1)
}

func probe(client *http.Client, url string, expectStatus int, expectBody string, attempt int) bool {
	fields := logrus.Fields{"url": url, "attempt": attempt}

	resp, err := client.Get(url)
	if err != nil {
		logrus.WithFields(fields).WithError(err).Warn("Probe failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != expectStatus {
		fields["status"] = resp.StatusCode
		logrus.WithFields(fields).Warn("Unexpected status")
		return false
	}

	if expectBody != "" {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if err != nil {
			logrus.WithFields(fields).WithError(err).Warn("Reading probe body failed")
			return false
		}
		if !strings.Contains(string(body), expectBody) {
			logrus.WithFields(fields).Warn("Body substring missing")
			return false
		}
	}

	return true
}
