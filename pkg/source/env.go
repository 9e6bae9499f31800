package source

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/jvandyke/smokecheck/pkg/check"
	"github.com/jvandyke/smokecheck/pkg/probe"
)

// Environment variables naming external services to validate. Each is
// optional; an unset variable means that service is omitted from the
// connectivity check entirely.
const (
	EnvRedisURL     = "EXTERNAL_REDIS_URL"
	EnvKafkaURL     = "EXTERNAL_KAFKA_URL"
	EnvCassandraURL = "EXTERNAL_CASSANDRA_URL"
	EnvAPIHealthURL = "EXTERNAL_API_HEALTH_CHECK_URL"
)

// LoadEnvFiles loads variables from local env files into the process
// environment. Files later in the list win; missing files are skipped.
func LoadEnvFiles(logger *logrus.Logger, files ...string) {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			logger.WithError(err).Warnf("failed to load %s", file)
			continue
		}
		loaded = append(loaded, file)
	}
	if len(loaded) == 0 {
		logger.Debug("no local env files loaded; relying on process environment")
		return
	}
	logger.Debugf("loaded env files: %s", strings.Join(loaded, ", "))
}

// ServicesFromEnv builds external service descriptors from the
// EXTERNAL_* environment variables. The datastore services get
// retry-wrapped TCP probes and are optional, so their unreachability
// does not sink an otherwise healthy deployment. The API health check
// URL gets an HTTP probe and is required.
func ServicesFromEnv() []check.Service {
	var services []check.Service

	if raw := os.Getenv(EnvRedisURL); raw != "" {
		services = append(services, optionalTCPService("External Redis", "Cache", raw))
	}
	if raw := os.Getenv(EnvKafkaURL); raw != "" {
		services = append(services, optionalTCPService("External Kafka", "Messaging", raw))
	}
	if raw := os.Getenv(EnvCassandraURL); raw != "" {
		services = append(services, optionalTCPService("External Cassandra", "Database", raw))
	}
	if raw := os.Getenv(EnvAPIHealthURL); raw != "" {
		url := raw
		services = append(services, check.NewService("External API", "REST API", url, func() bool {
			return probe.HTTP(url, probe.DefaultTimeout)
		}))
	}

	return services
}

// optionalTCPService builds a Required=false service whose probe is a
// retry-wrapped TCP dial derived from the raw URL. An unparseable URL
// yields a probe that always fails, surfacing the bad value in the
// report instead of dropping the service.
func optionalTCPService(name, kind, raw string) check.Service {
	svc := check.NewService(name, kind, raw, nil)
	svc.Required = false

	host, port, err := HostPort(raw)
	if err != nil {
		logrus.Warnf("%s: invalid address %q: %v", name, raw, err)
		svc.Probe = func() bool { return false }
		return svc
	}
	svc.Probe = func() bool {
		return probe.WithRetry(func() bool {
			return probe.TCP(host, port, probe.DefaultTimeout)
		}, probe.DefaultRetryCount, probe.DefaultRetryDelay)
	}
	return svc
}
