package models

// IconName is one of the fixed icons a service card can show.
type IconName string

const (
	IconWrench       IconName = "Wrench"
	IconZap          IconName = "Zap"
	IconCircuitBoard IconName = "CircuitBoard"
	IconHardHat      IconName = "HardHat"
	IconShoppingCart IconName = "ShoppingCart"
	IconRepeat       IconName = "Repeat"
	IconHeartPulse   IconName = "HeartPulse"
)

// IconNames lists the accepted icons.
var IconNames = []IconName{IconWrench, IconZap, IconCircuitBoard, IconHardHat, IconShoppingCart, IconRepeat, IconHeartPulse}

// ServiceStatus marks whether a service is offered yet.
type ServiceStatus string

const (
	ServiceStatusActive     ServiceStatus = "active"
	ServiceStatusComingSoon ServiceStatus = "coming_soon"
)

// ServiceItem is one entry of the homepage service list.
type ServiceItem struct {
	Icon        IconName      `json:"icon" yaml:"icon"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	Status      ServiceStatus `json:"status" yaml:"status"`
}

// HomepageContent is the singleton document holding the editable site copy.
type HomepageContent struct {
	LogoURL       string        `json:"logoUrl" yaml:"logoUrl"`
	HeroTitle     string        `json:"heroTitle" yaml:"heroTitle"`
	HeroSubtitle  string        `json:"heroSubtitle" yaml:"heroSubtitle"`
	HeroImageURL  string        `json:"heroImageUrl" yaml:"heroImageUrl"`
	AboutTitle    string        `json:"aboutTitle" yaml:"aboutTitle"`
	AboutText     string        `json:"aboutText" yaml:"aboutText"`
	AboutImageURL string        `json:"aboutImageUrl" yaml:"aboutImageUrl"`
	Services      []ServiceItem `json:"services" yaml:"services"`
}
