package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// URLToServiceAndMethod extracts the service name and method name from a URL.
func URLToServiceAndMethod(url string) (string, string) {
	if len(url) == 0 || url[0] != '/' {
		return "", ""
	}

	// Split the trimmed URL by '/'
	parts := strings.Split(url[1:], "/")
	if len(parts) != 2 {
		return "", ""
	}

	var (
		serviceName = parts[0]
		methodName  = parts[1]
	)

	return serviceName, methodName
}

// LoggingInterceptor logs every unary call with its status code and duration.
func LoggingInterceptor(log logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		service, method := URLToServiceAndMethod(info.FullMethod)
		log.WithFields(logrus.Fields{
			"service":  service,
			"method":   method,
			"code":     status.Code(err).String(),
			"duration": time.Since(start),
		}).Debug("grpc call")

		return resp, err
	}
}
