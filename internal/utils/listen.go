package utils

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

const defaultPort = 8080

func getPort(httpPort string) int {
	port, err := strconv.Atoi(httpPort)
	if err != nil {
		zap.L().Warn("invalid port, defaulting", zap.String("port", httpPort), zap.Int("default", defaultPort))
		return defaultPort
	}

	if port < 10 || port > 65535 {
		zap.L().Warn("port out of range (10-65535), defaulting", zap.Int("port", port), zap.Int("default", defaultPort))
		return defaultPort
	}

	return port
}

func GetListenAddress(httpPort, appEnv string) string {
	port := getPort(httpPort)

	if appEnv == "production" {
		return fmt.Sprintf("0.0.0.0:%d", port)
	}
	return fmt.Sprintf(":%d", port)
}
