package mavlink

import (
	"testing"

	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
	"github.com/bluenviron/gomavlib/v3/pkg/message"
)

func TestClassifyMessageKinds(t *testing.T) {
	cases := []struct {
		name string
		msg  message.Message
		want SensorKind
	}{
		{"scaled_imu", &common.MessageScaledImu{}, KindImu0},
		{"scaled_imu2", &common.MessageScaledImu2{}, KindImu1},
		{"scaled_imu3", &common.MessageScaledImu3{}, KindImu2},
		{"highres_imu", &common.MessageHighresImu{}, KindHighresImu},
		{"scaled_pressure", &common.MessageScaledPressure{}, KindBarometer},
		{"attitude_quaternion", &common.MessageAttitudeQuaternion{}, KindAttitude},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := ClassifyMessage(c.msg)
			if !ok {
				t.Fatalf("ClassifyMessage(%s): expected ok", c.name)
			}
			if got != c.want {
				t.Errorf("ClassifyMessage(%s) = %v, want %v", c.name, got, c.want)
			}
		})
	}
}

func TestClassifyMessageRejectsUnrelatedKind(t *testing.T) {
	if _, ok := ClassifyMessage(&common.MessageHeartbeat{}); ok {
		t.Error("expected HEARTBEAT to not classify as a sensor kind")
	}
}

func TestScaledImuConvertsMilliUnitsToSI(t *testing.T) {
	msg := &common.MessageScaledImu{
		Xacc: 1000, Yacc: 0, Zacc: -1000,
		Xgyro: 1000, Ygyro: 0, Zgyro: -1000,
	}
	frame, ok := ToFrame(KindImu0, msg)
	if !ok {
		t.Fatal("expected ok")
	}
	if !frame.HasAccel || !frame.HasGyro {
		t.Fatal("expected accel and gyro present")
	}
	if got, want := frame.Accel[0], float32(9.81); got != want {
		t.Errorf("Accel[0] = %v, want %v", got, want)
	}
	if got, want := frame.Gyro[0], float32(1.0); got != want {
		t.Errorf("Gyro[0] = %v, want %v", got, want)
	}
}

func TestScaledPressureConvertsHpaToPa(t *testing.T) {
	msg := &common.MessageScaledPressure{
		PressAbs:    1013.25,
		PressDiff:   0,
		Temperature: 2500, // 25.00 C in centi-degrees
	}
	frame, ok := ToFrame(KindBarometer, msg)
	if !ok {
		t.Fatal("expected ok")
	}
	if !frame.HasPressureStatic {
		t.Fatal("expected pressure_static present")
	}
	if frame.HasPressurePitot {
		t.Fatal("expected no differential pressure when press_diff is zero")
	}
	want := float32(1013.25 * 100)
	if frame.PressureStatic != want {
		t.Errorf("PressureStatic = %v, want %v", frame.PressureStatic, want)
	}
	if frame.Temp != 25.0 {
		t.Errorf("Temp = %v, want 25.0", frame.Temp)
	}
}

func TestAttitudeQuaternionCarriesAngularVelocity(t *testing.T) {
	msg := &common.MessageAttitudeQuaternion{
		Q1: 1, Q2: 0, Q3: 0, Q4: 0,
		Rollspeed: 0.1, Pitchspeed: 0.2, Yawspeed: 0.3,
	}
	frame, ok := ToFrame(KindAttitude, msg)
	if !ok {
		t.Fatal("expected ok")
	}
	if !frame.HasQuaternion || !frame.HasAngularVelocityBody {
		t.Fatal("expected quaternion and angular velocity present")
	}
	if frame.Quaternion[0] != 1 {
		t.Errorf("Quaternion[0] = %v, want 1", frame.Quaternion[0])
	}
}

func TestIsFlightControllerRecognizesKnownAutopilots(t *testing.T) {
	px4 := &common.MessageHeartbeat{Autopilot: common.MAV_AUTOPILOT_PX4}
	if !IsFlightController(px4) {
		t.Error("expected PX4 to be recognized")
	}
	invalid := &common.MessageHeartbeat{Autopilot: common.MAV_AUTOPILOT_INVALID}
	if IsFlightController(invalid) {
		t.Error("expected INVALID autopilot to be rejected")
	}
}
