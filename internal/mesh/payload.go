package mesh

// Position is a POSITION_APP payload.
//
// No field is omitted when serialized: a zero value means the radio
// reported the default, not that the field does not apply. Like every
// structured payload, members without a declared field are kept in Extra
// and serialized after the declared ones.
type Position struct {
	LatitudeI                 int32  `json:"latitudeI"`
	LongitudeI                int32  `json:"longitudeI"`
	Altitude                  int32  `json:"altitude"`
	Time                      uint32 `json:"time"`
	LocationSource            string `json:"locationSource"`
	AltitudeSource            string `json:"altitudeSource"`
	Timestamp                 uint32 `json:"timestamp"`
	TimestampMillisAdjust     int32  `json:"timestampMillisAdjust"`
	AltitudeHae               int32  `json:"altitudeHae"`
	AltitudeGeoidalSeparation int32  `json:"altitudeGeoidalSeparation"`
	PDOP                      uint32 `json:"PDOP"`
	HDOP                      uint32 `json:"HDOP"`
	VDOP                      uint32 `json:"VDOP"`
	GpsAccuracy               uint32 `json:"gpsAccuracy"`
	GroundSpeed               uint32 `json:"groundSpeed"`
	GroundTrack               uint32 `json:"groundTrack"`
	FixQuality                uint32 `json:"fixQuality"`
	FixType                   uint32 `json:"fixType"`
	SatsInView                uint32 `json:"satsInView"`
	SensorID                  uint32 `json:"sensorId"`
	NextUpdate                uint32 `json:"nextUpdate"`
	SeqNumber                 uint32 `json:"seqNumber"`
	PrecisionBits             uint32 `json:"precisionBits"`

	// Extra holds the members the radio sent that Position does not declare.
	Extra Fields `json:"-"`
}

func (Position) Port() Port { return PortPosition }
func (Position) isPayload() {}

// WithDefaults fills empty enum fields with their default names.
func (p Position) WithDefaults() Position {
	if p.LocationSource == "" {
		p.LocationSource = "LOC_UNSET"
	}
	if p.AltitudeSource == "" {
		p.AltitudeSource = "ALT_UNSET"
	}
	return p
}

// User is a NODEINFO_APP payload. Byte fields are base64 text.
type User struct {
	ID         string `json:"id"`
	LongName   string `json:"longName"`
	ShortName  string `json:"shortName"`
	Macaddr    string `json:"macaddr"`
	HwModel    string `json:"hwModel"`
	IsLicensed bool   `json:"isLicensed"`
	Role       string `json:"role"`
	PublicKey  string `json:"publicKey"`

	// Extra holds the members the radio sent that User does not declare.
	Extra Fields `json:"-"`
}

func (User) Port() Port { return PortNodeInfo }
func (User) isPayload() {}

// WithDefaults fills empty enum fields with their default names.
func (u User) WithDefaults() User {
	if u.HwModel == "" {
		u.HwModel = "UNSET"
	}
	if u.Role == "" {
		u.Role = "CLIENT"
	}
	return u
}

// Telemetry is a TELEMETRY_APP payload. Exactly one metrics group is
// expected to be set; the unset groups are left out when serialized.
type Telemetry struct {
	Time               uint32              `json:"time"`
	DeviceMetrics      *DeviceMetrics      `json:"deviceMetrics,omitempty"`
	EnvironmentMetrics *EnvironmentMetrics `json:"environmentMetrics,omitempty"`
	AirQualityMetrics  *AirQualityMetrics  `json:"airQualityMetrics,omitempty"`
	PowerMetrics       *PowerMetrics       `json:"powerMetrics,omitempty"`

	// Extra holds the members the radio sent that Telemetry does not declare.
	Extra Fields `json:"-"`
}

func (Telemetry) Port() Port { return PortTelemetry }
func (Telemetry) isPayload() {}

// DeviceMetrics reports the sending node's own health.
type DeviceMetrics struct {
	BatteryLevel       uint32  `json:"batteryLevel"`
	Voltage            float32 `json:"voltage"`
	ChannelUtilization float32 `json:"channelUtilization"`
	AirUtilTx          float32 `json:"airUtilTx"`
	UptimeSeconds      uint32  `json:"uptimeSeconds"`

	// Extra holds the members the radio sent that DeviceMetrics does not declare.
	Extra Fields `json:"-"`
}

// EnvironmentMetrics reports attached environment sensor readings.
type EnvironmentMetrics struct {
	Temperature        float32 `json:"temperature"`
	RelativeHumidity   float32 `json:"relativeHumidity"`
	BarometricPressure float32 `json:"barometricPressure"`
	GasResistance      float32 `json:"gasResistance"`
	Voltage            float32 `json:"voltage"`
	Current            float32 `json:"current"`
	IAQ                uint32  `json:"iaq"`

	// Extra holds the members the radio sent that EnvironmentMetrics does not declare.
	Extra Fields `json:"-"`
}

// AirQualityMetrics reports particulate sensor readings.
type AirQualityMetrics struct {
	Pm10Standard       uint32 `json:"pm10Standard"`
	Pm25Standard       uint32 `json:"pm25Standard"`
	Pm100Standard      uint32 `json:"pm100Standard"`
	Pm10Environmental  uint32 `json:"pm10Environmental"`
	Pm25Environmental  uint32 `json:"pm25Environmental"`
	Pm100Environmental uint32 `json:"pm100Environmental"`
	Particles03um      uint32 `json:"particles03um"`
	Particles05um      uint32 `json:"particles05um"`
	Particles10um      uint32 `json:"particles10um"`
	Particles25um      uint32 `json:"particles25um"`
	Particles50um      uint32 `json:"particles50um"`
	Particles100um     uint32 `json:"particles100um"`

	// Extra holds the members the radio sent that AirQualityMetrics does not declare.
	Extra Fields `json:"-"`
}

// PowerMetrics reports per-channel voltage and current.
type PowerMetrics struct {
	Ch1Voltage float32 `json:"ch1Voltage"`
	Ch1Current float32 `json:"ch1Current"`
	Ch2Voltage float32 `json:"ch2Voltage"`
	Ch2Current float32 `json:"ch2Current"`
	Ch3Voltage float32 `json:"ch3Voltage"`
	Ch3Current float32 `json:"ch3Current"`

	// Extra holds the members the radio sent that PowerMetrics does not declare.
	Extra Fields `json:"-"`
}

// Text is a TEXT_MESSAGE_APP payload: the message as received.
type Text string

func (Text) Port() Port { return PortTextMessage }
func (Text) isPayload() {}

// Unrecognized carries the tag of a payload kind that is not decoded.
// Tag is empty when the packet had no tag at all.
type Unrecognized struct {
	Tag Port
}

func (u Unrecognized) Port() Port { return u.Tag }
func (Unrecognized) isPayload() {}
