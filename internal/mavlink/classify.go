package mavlink

import (
	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
	"github.com/bluenviron/gomavlib/v3/pkg/message"

	"github.com/navigate/sensorhubd/internal/model"
)

// SensorKind identifies which MAVLink message kind a push-based sensor
// tracks. Three SCALED_IMU variants are distinguished by instance number
// because the wire format carries no explicit sensor ID for them.
type SensorKind string

const (
	KindImu0       SensorKind = "imu0"
	KindImu1       SensorKind = "imu1"
	KindImu2       SensorKind = "imu2"
	KindHighresImu SensorKind = "imu_highres"
	KindBarometer  SensorKind = "baro0"
	KindAttitude   SensorKind = "attitude"
)

// AllKinds is the full set of kinds the registry may auto-create a sensor
// for once the detection grace period elapses.
var AllKinds = []SensorKind{KindImu0, KindImu1, KindImu2, KindHighresImu, KindBarometer, KindAttitude}

// ClassifyMessage reports which SensorKind, if any, msg belongs to.
func ClassifyMessage(msg message.Message) (SensorKind, bool) {
	switch msg.(type) {
	case *common.MessageScaledImu:
		return KindImu0, true
	case *common.MessageScaledImu2:
		return KindImu1, true
	case *common.MessageScaledImu3:
		return KindImu2, true
	case *common.MessageHighresImu:
		return KindHighresImu, true
	case *common.MessageScaledPressure:
		return KindBarometer, true
	case *common.MessageAttitudeQuaternion:
		return KindAttitude, true
	default:
		return "", false
	}
}

// knownAutopilots are the MAV_AUTOPILOT values a HEARTBEAT must carry for
// this daemon to treat the sending system as a flight controller worth
// subscribing sensors to, rather than another ground station or a relay.
var knownAutopilots = map[common.MAV_AUTOPILOT]bool{
	common.MAV_AUTOPILOT_PX4:           true,
	common.MAV_AUTOPILOT_ARDUPILOTMEGA: true,
	common.MAV_AUTOPILOT_GENERIC:       true,
	common.MAV_AUTOPILOT_GENERIC_WAYPOINTS_ONLY:                       true,
	common.MAV_AUTOPILOT_GENERIC_WAYPOINTS_AND_SIMPLE_NAVIGATION_ONLY: true,
}

// IsFlightController reports whether hb was sent by an autopilot this
// daemon should treat as a sensor source.
func IsFlightController(hb *common.MessageHeartbeat) bool {
	return knownAutopilots[hb.Autopilot]
}

// ToFrame converts a classified MAVLink message into the common
// SensorDataFrame representation, applying the unit conversions the wire
// format requires. ok is false for a kind/message pairing that doesn't
// match (should not happen if msg was classified via ClassifyMessage).
func ToFrame(kind SensorKind, msg message.Message) (model.SensorDataFrame, bool) {
	switch kind {
	case KindImu0:
		m, ok := msg.(*common.MessageScaledImu)
		if !ok {
			return model.SensorDataFrame{}, false
		}
		return scaledImuFrame(int32(m.Xacc), int32(m.Yacc), int32(m.Zacc), int32(m.Xgyro), int32(m.Ygyro), int32(m.Zgyro)), true

	case KindImu1:
		m, ok := msg.(*common.MessageScaledImu2)
		if !ok {
			return model.SensorDataFrame{}, false
		}
		return scaledImuFrame(int32(m.Xacc), int32(m.Yacc), int32(m.Zacc), int32(m.Xgyro), int32(m.Ygyro), int32(m.Zgyro)), true

	case KindImu2:
		m, ok := msg.(*common.MessageScaledImu3)
		if !ok {
			return model.SensorDataFrame{}, false
		}
		return scaledImuFrame(int32(m.Xacc), int32(m.Yacc), int32(m.Zacc), int32(m.Xgyro), int32(m.Ygyro), int32(m.Zgyro)), true

	case KindHighresImu:
		m, ok := msg.(*common.MessageHighresImu)
		if !ok {
			return model.SensorDataFrame{}, false
		}
		// HIGHRES_IMU already reports SI units: m/s^2, rad/s, degrees C.
		return model.SensorDataFrame{
			Accel: [3]float32{m.Xacc, m.Yacc, m.Zacc}, HasAccel: true,
			Gyro: [3]float32{m.Xgyro, m.Ygyro, m.Zgyro}, HasGyro: true,
			Mag: [3]float32{m.Xmag * 100, m.Ymag * 100, m.Zmag * 100}, HasMag: true,
			Temp: m.Temperature, HasTemp: true,
		}, true

	case KindBarometer:
		m, ok := msg.(*common.MessageScaledPressure)
		if !ok {
			return model.SensorDataFrame{}, false
		}
		frame := model.SensorDataFrame{
			PressureStatic: m.PressAbs * 100, HasPressureStatic: true,
			Temp: float32(m.Temperature) / 100, HasTemp: true,
		}
		if m.PressDiff != 0 {
			frame.PressurePitot = m.PressDiff * 100
			frame.HasPressurePitot = true
		}
		return frame, true

	case KindAttitude:
		m, ok := msg.(*common.MessageAttitudeQuaternion)
		if !ok {
			return model.SensorDataFrame{}, false
		}
		return model.SensorDataFrame{
			Quaternion: [4]float32{m.Q1, m.Q2, m.Q3, m.Q4}, HasQuaternion: true,
			AngularVelocityBody: [3]float32{m.Rollspeed, m.Pitchspeed, m.Yawspeed}, HasAngularVelocityBody: true,
		}, true

	default:
		return model.SensorDataFrame{}, false
	}
}

// milliGToMetersPerSecondSquared converts milli-g accelerometer counts to m/s^2.
const milliGToMetersPerSecondSquared = 9.81 / 1000.0

// milliRadPerSecToRadPerSec converts milli-rad/s gyroscope counts to rad/s.
const milliRadPerSecToRadPerSec = 1.0 / 1000.0

// scaledImuFrame builds the accel+gyro portion of a frame shared by
// SCALED_IMU, SCALED_IMU2 and SCALED_IMU3 — identical wire units, only
// the instance differs.
func scaledImuFrame(xacc, yacc, zacc, xgyro, ygyro, zgyro int32) model.SensorDataFrame {
	return model.SensorDataFrame{
		Accel: [3]float32{
			float32(float64(xacc) * milliGToMetersPerSecondSquared),
			float32(float64(yacc) * milliGToMetersPerSecondSquared),
			float32(float64(zacc) * milliGToMetersPerSecondSquared),
		},
		HasAccel: true,
		Gyro: [3]float32{
			float32(xgyro) * milliRadPerSecToRadPerSec,
			float32(ygyro) * milliRadPerSecToRadPerSec,
			float32(zgyro) * milliRadPerSecToRadPerSec,
		},
		HasGyro: true,
	}
}
