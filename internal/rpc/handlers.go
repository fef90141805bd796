package rpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/navigate/sensorhubd/internal/hub"
	"github.com/navigate/sensorhubd/internal/logging"
	"github.com/navigate/sensorhubd/internal/model"
)

// Procedure paths stand in for the generated ones a .proto/codegen
// pipeline would normally produce; hand-written here per DESIGN.md.
const (
	ProcedureStreamIMU          = "/sensorhub.v1.SensorHub/StreamIMU"
	ProcedureStreamMagnetometer = "/sensorhub.v1.SensorHub/StreamMagnetometer"
	ProcedureStreamBarometer    = "/sensorhub.v1.SensorHub/StreamBarometer"
	ProcedureStreamAll          = "/sensorhub.v1.SensorHub/StreamAll"
	ProcedureGetSensorStatus    = "/sensorhub.v1.SensorHub/GetSensorStatus"
)

// Mux is the subset of server.Server's API this package needs, kept as
// a small interface here to avoid an import cycle with internal/server.
type Mux interface {
	RegisterService(path string, handler http.Handler)
}

// Service implements the sensor hub's five RPC operations over a shared
// hub.Hub. Grounded on original_source/src/grpc_service.rs's
// SensorHubService method set.
type Service struct {
	hub    *hub.Hub
	logger *logging.Logger
}

// NewService constructs a Service bound to h.
func NewService(h *hub.Hub, logger *logging.Logger) *Service {
	return &Service{hub: h, logger: logger}
}

// StreamIMU streams every published IMU message until the client
// disconnects.
func (s *Service) StreamIMU(ctx context.Context, req *connect.Request[StreamRequest], stream *connect.ServerStream[model.ImuMessage]) error {
	s.logger.Debugf("rpc: new IMU stream client")
	rx := s.hub.SubscribeIMU()
	defer rx.Unsubscribe()

	for {
		msg, err := rx.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			continue // lagged; resume from the oldest still-queued message
		}
		if !req.Msg.Matches(msg.H.SensorID) {
			continue
		}
		if err := stream.Send(&msg); err != nil {
			return err
		}
	}
}

// StreamMagnetometer streams every published magnetometer message until
// the client disconnects.
func (s *Service) StreamMagnetometer(ctx context.Context, req *connect.Request[StreamRequest], stream *connect.ServerStream[model.MagnetometerMessage]) error {
	s.logger.Debugf("rpc: new magnetometer stream client")
	rx := s.hub.SubscribeMagnetometer()
	defer rx.Unsubscribe()

	for {
		msg, err := rx.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		if !req.Msg.Matches(msg.H.SensorID) {
			continue
		}
		if err := stream.Send(&msg); err != nil {
			return err
		}
	}
}

// StreamBarometer streams every published barometer message until the
// client disconnects.
func (s *Service) StreamBarometer(ctx context.Context, req *connect.Request[StreamRequest], stream *connect.ServerStream[model.BarometerMessage]) error {
	s.logger.Debugf("rpc: new barometer stream client")
	rx := s.hub.SubscribeBarometer()
	defer rx.Unsubscribe()

	for {
		msg, err := rx.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		if !req.Msg.Matches(msg.H.SensorID) {
			continue
		}
		if err := stream.Send(&msg); err != nil {
			return err
		}
	}
}

// StreamAll streams the unified envelope feed until the client
// disconnects.
func (s *Service) StreamAll(ctx context.Context, req *connect.Request[StreamRequest], stream *connect.ServerStream[model.SensorEnvelope]) error {
	s.logger.Debugf("rpc: new unified stream client")
	rx := s.hub.SubscribeAll()
	defer rx.Unsubscribe()

	for {
		msg, err := rx.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		if !req.Msg.Matches(msg.Header().SensorID) {
			continue
		}
		if err := stream.Send(&msg); err != nil {
			return err
		}
	}
}

// GetSensorStatus returns a point-in-time snapshot of every tracked
// sensor's publication status, restricted to req's sensor-id filter if
// one is set.
func (s *Service) GetSensorStatus(ctx context.Context, req *connect.Request[StatusRequest]) (*connect.Response[StatusResponse], error) {
	snapshot := s.hub.Snapshot()
	sensors := make([]hub.Status, 0, len(snapshot))
	for _, st := range snapshot {
		if req.Msg.Matches(st.SensorID) {
			sensors = append(sensors, st)
		}
	}
	return connect.NewResponse(&StatusResponse{Sensors: sensors}), nil
}

// Register mounts every operation's handler onto mux, using the JSON
// codec in place of connect-go's default protobuf codec.
func Register(mux Mux, svc *Service) {
	opts := []connect.HandlerOption{connect.WithCodec(JSONCodec{})}

	_, imuHandler := connect.NewServerStreamHandler(ProcedureStreamIMU, svc.StreamIMU, opts...)
	mux.RegisterService(ProcedureStreamIMU, imuHandler)

	_, magHandler := connect.NewServerStreamHandler(ProcedureStreamMagnetometer, svc.StreamMagnetometer, opts...)
	mux.RegisterService(ProcedureStreamMagnetometer, magHandler)

	_, baroHandler := connect.NewServerStreamHandler(ProcedureStreamBarometer, svc.StreamBarometer, opts...)
	mux.RegisterService(ProcedureStreamBarometer, baroHandler)

	_, allHandler := connect.NewServerStreamHandler(ProcedureStreamAll, svc.StreamAll, opts...)
	mux.RegisterService(ProcedureStreamAll, allHandler)

	_, statusHandler := connect.NewUnaryHandler(ProcedureGetSensorStatus, svc.GetSensorStatus, opts...)
	mux.RegisterService(ProcedureGetSensorStatus, statusHandler)
}
