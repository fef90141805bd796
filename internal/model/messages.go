package model

// ImuMessage carries a fully-populated accelerometer+gyroscope sample.
type ImuMessage struct {
	H  Header  `json:"h"`
	Ax float32 `json:"ax"`
	Ay float32 `json:"ay"`
	Az float32 `json:"az"`
	Gx float32 `json:"gx"`
	Gy float32 `json:"gy"`
	Gz float32 `json:"gz"`
}

// MagnetometerMessage carries a magnetic field sample in microtesla.
type MagnetometerMessage struct {
	H  Header  `json:"h"`
	Mx float32 `json:"mx"`
	My float32 `json:"my"`
	Mz float32 `json:"mz"`
}

// BarometerMessage carries a pressure/temperature/derived-altitude sample.
type BarometerMessage struct {
	H        Header  `json:"h"`
	Pressure float32 `json:"pressure"`
	Temp     float32 `json:"temperature"`
	Altitude float32 `json:"altitude"`
}

// QuaternionMessage carries an attitude estimate. This kind is not in
// the original wire schema (see spec's Open Question on
// ATTITUDE_QUATERNION) but is forward-compatible: it carries its own
// Header and is routed on its own hub channel rather than dropped.
type QuaternionMessage struct {
	H  Header  `json:"h"`
	W  float32 `json:"w"`
	X  float32 `json:"x"`
	Y  float32 `json:"y"`
	Z  float32 `json:"z"`
	Wx float32 `json:"wx"` // body angular velocity, rad/s
	Wy float32 `json:"wy"`
	Wz float32 `json:"wz"`
}

// EnvelopeKind discriminates SensorEnvelope's payload.
type EnvelopeKind string

const (
	KindImu        EnvelopeKind = "imu"
	KindMag        EnvelopeKind = "mag"
	KindBaro       EnvelopeKind = "baro"
	KindQuaternion EnvelopeKind = "attitude"
)

// SensorEnvelope is the discriminated union carried on the unified
// stream (StreamAll). Exactly one of the typed payload fields is set,
// selected by Kind.
type SensorEnvelope struct {
	Kind EnvelopeKind          `json:"kind"`
	Imu  *ImuMessage           `json:"imu,omitempty"`
	Mag  *MagnetometerMessage  `json:"mag,omitempty"`
	Baro *BarometerMessage     `json:"baro,omitempty"`
	Att  *QuaternionMessage    `json:"attitude,omitempty"`
}

// Header returns the common header of whichever payload is populated.
func (e SensorEnvelope) Header() Header {
	switch e.Kind {
	case KindImu:
		return e.Imu.H
	case KindMag:
		return e.Mag.H
	case KindBaro:
		return e.Baro.H
	case KindQuaternion:
		return e.Att.H
	default:
		return Header{}
	}
}

// DeriveImu returns an ImuMessage from frame if both accel and gyro are
// present, matching the spec invariant that every published IMU message
// carries both arrays fully populated.
func DeriveImu(h Header, frame SensorDataFrame) (ImuMessage, bool) {
	if !frame.HasAccel || !frame.HasGyro {
		return ImuMessage{}, false
	}
	return ImuMessage{
		H:  h,
		Ax: frame.Accel[0], Ay: frame.Accel[1], Az: frame.Accel[2],
		Gx: frame.Gyro[0], Gy: frame.Gyro[1], Gz: frame.Gyro[2],
	}, true
}

// DeriveMagnetometer returns a MagnetometerMessage from frame if mag is
// present.
func DeriveMagnetometer(h Header, frame SensorDataFrame) (MagnetometerMessage, bool) {
	if !frame.HasMag {
		return MagnetometerMessage{}, false
	}
	return MagnetometerMessage{H: h, Mx: frame.Mag[0], My: frame.Mag[1], Mz: frame.Mag[2]}, true
}

// DeriveBarometer returns a BarometerMessage from frame if either
// pressure field is present, computing altitude from whichever is set
// (preferring static over pitot when both are present).
func DeriveBarometer(h Header, frame SensorDataFrame) (BarometerMessage, bool) {
	var pressure float32
	switch {
	case frame.HasPressureStatic:
		pressure = frame.PressureStatic
	case frame.HasPressurePitot:
		pressure = frame.PressurePitot
	default:
		return BarometerMessage{}, false
	}
	return BarometerMessage{
		H:        h,
		Pressure: pressure,
		Temp:     frame.Temp,
		Altitude: float32(Altitude(float64(pressure))),
	}, true
}

// DeriveQuaternion returns a QuaternionMessage from frame if a
// quaternion is present.
func DeriveQuaternion(h Header, frame SensorDataFrame) (QuaternionMessage, bool) {
	if !frame.HasQuaternion {
		return QuaternionMessage{}, false
	}
	msg := QuaternionMessage{
		H: h,
		W: frame.Quaternion[0], X: frame.Quaternion[1], Y: frame.Quaternion[2], Z: frame.Quaternion[3],
	}
	if frame.HasAngularVelocityBody {
		msg.Wx = frame.AngularVelocityBody[0]
		msg.Wy = frame.AngularVelocityBody[1]
		msg.Wz = frame.AngularVelocityBody[2]
	}
	return msg, true
}
