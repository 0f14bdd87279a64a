package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Gender valores que espera el servicio de predicción.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// InternetService tipo de conexión contratada.
type InternetService string

const (
	InternetDSL   InternetService = "DSL"
	InternetFiber InternetService = "Fiber optic"
	InternetNone  InternetService = "No"
)

// ContractType duración del contrato.
type ContractType string

const (
	ContractMonthToMonth ContractType = "Month-to-month"
	ContractOneYear      ContractType = "One year"
	ContractTwoYear      ContractType = "Two year"
)

// YesNo enum booleano tal como viaja al servicio.
type YesNo string

const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

// Métodos de pago conocidos. El campo es texto libre; estos son los valores del formulario.
const (
	PaymentElectronicCheck = "Electronic check"
	PaymentMailedCheck     = "Mailed check"
	PaymentBankTransfer    = "Bank transfer (automatic)"
	PaymentCreditCard      = "Credit card (automatic)"
)

// CustomerProfile atributos de un cliente enviados al servicio de predicción.
// Todos los campos tienen siempre valor; los numéricos nunca quedan sin asignar.
type CustomerProfile struct {
	Gender           Gender
	Age              int // [18,100]
	TenureMonths     int // [0,72]
	MonthlyCharges   decimal.Decimal // [20,120]
	TotalCharges     decimal.Decimal // >= 0
	InternetService  InternetService
	ContractType     ContractType
	PaymentMethod    string
	PaperlessBilling YesNo
	TechSupport      YesNo
	OnlineBackup     YesNo
}

// DefaultCustomerProfile perfil con el que arranca cada sesión.
func DefaultCustomerProfile() CustomerProfile {
	return CustomerProfile{
		Gender:           GenderMale,
		Age:              35,
		TenureMonths:     12,
		MonthlyCharges:   decimal.NewFromFloat(65.0),
		TotalCharges:     decimal.NewFromFloat(1500.0),
		InternetService:  InternetFiber,
		ContractType:     ContractMonthToMonth,
		PaymentMethod:    PaymentElectronicCheck,
		PaperlessBilling: Yes,
		TechSupport:      No,
		OnlineBackup:     No,
	}
}

// Field identifica un campo de CustomerProfile.
type Field string

const (
	FieldGender           Field = "gender"
	FieldAge              Field = "age"
	FieldTenureMonths     Field = "tenure_months"
	FieldMonthlyCharges   Field = "monthly_charges"
	FieldTotalCharges     Field = "total_charges"
	FieldInternetService  Field = "internet_service"
	FieldContractType     Field = "contract_type"
	FieldPaymentMethod    Field = "payment_method"
	FieldPaperlessBilling Field = "paperless_billing"
	FieldTechSupport      Field = "tech_support"
	FieldOnlineBackup     Field = "online_backup"
)

// Fields devuelve los campos en el orden del formulario.
func Fields() []Field {
	return []Field{
		FieldGender,
		FieldAge,
		FieldTenureMonths,
		FieldMonthlyCharges,
		FieldTotalCharges,
		FieldInternetService,
		FieldContractType,
		FieldPaymentMethod,
		FieldPaperlessBilling,
		FieldTechSupport,
		FieldOnlineBackup,
	}
}

// wireNames nombres con los que el servicio externo conoce algunos campos.
var wireNames = map[Field]string{
	FieldTenureMonths: "tenure",
	FieldContractType: "contract",
}

// WireName nombre del campo en el cuerpo JSON de /predict.
func (f Field) WireName() string {
	if n, ok := wireNames[f]; ok {
		return n
	}
	return string(f)
}

// ParseField acepta tanto el nombre semántico como el nombre de wire.
func ParseField(name string) (Field, bool) {
	name = strings.TrimSpace(name)
	for _, f := range Fields() {
		if string(f) == name || f.WireName() == name {
			return f, true
		}
	}
	return "", false
}
