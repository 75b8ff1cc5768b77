package main

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	MQTTHost     string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string

	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string

	ConfigDBPath string

	SensorSubTopic    string
	DecisionTopicTmpl string
	CacheTTL          time.Duration
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func loadConfig() Config {
	return Config{
		Port: getenv("PORT", "8090"),

		MQTTHost:     getenv("MQTT_HOST", "localhost"),
		MQTTPort:     getenvInt("MQTT_PORT", 1883),
		MQTTUser:     getenv("MQTT_USER", "guest"),
		MQTTPassword: getenv("MQTT_PASSWORD", "guest"),

		InfluxURL:    getenv("INFLUX_URL", "http://influxdb:8086"),
		InfluxToken:  getenv("INFLUX_TOKEN", ""),
		InfluxOrg:    getenv("INFLUX_ORG", "agrimind"),
		InfluxBucket: getenv("INFLUX_BUCKET", "farm"),

		ConfigDBPath: getenv("CONFIG_DB_PATH", "/var/lib/agrimind/configs.db"),

		SensorSubTopic:    getenv("SENSOR_SUB_TOPIC", "sensor/aggregated/#"),
		DecisionTopicTmpl: getenv("DECISION_TOPIC_TMPL", "event/irrigationDecision/{farm}"),
		CacheTTL:          time.Duration(getenvInt("CACHE_TTL_MS", 60000)) * time.Millisecond,
	}
}
