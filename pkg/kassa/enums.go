package kassa

// Intent es la dirección del pago
type Intent string

const (
	IntentSell                 Intent = "sell"
	IntentSellReturn           Intent = "sellReturn"
	IntentBuy                  Intent = "buy"
	IntentBuyReturn            Intent = "buyReturn"
	IntentSellCorrection       Intent = "sellCorrection"
	IntentBuyCorrection        Intent = "buyCorrection"
	IntentSellReturnCorrection Intent = "sellReturnCorrection"
	IntentBuyReturnCorrection  Intent = "buyReturnCorrection"
)

// Valid indica si el valor es una de las direcciones conocidas
func (i Intent) Valid() bool {
	switch i {
	case IntentSell, IntentSellReturn, IntentBuy, IntentBuyReturn:
		return true
	}
	return i.Correction()
}

// Correction indica si la dirección corresponde a un cheque de corrección
func (i Intent) Correction() bool {
	switch i {
	case IntentSellCorrection, IntentBuyCorrection, IntentSellReturnCorrection, IntentBuyReturnCorrection:
		return true
	}
	return false
}

// TaxSystem es el sistema de tributación (СНО)
type TaxSystem int

const (
	TaxSystemCommon          TaxSystem = 0 // ОСН
	TaxSystemSimplifiedIn    TaxSystem = 1 // УСН доход
	TaxSystemSimplifiedInOut TaxSystem = 2 // УСН доход - расход
	TaxSystemUTOII           TaxSystem = 3 // ЕНВД
	TaxSystemUST             TaxSystem = 4 // ЕСН
	TaxSystemPatent          TaxSystem = 5 // Патент
)

// PaymentType es el medio de pago
type PaymentType string

const (
	PaymentTypeCard                PaymentType = "card"
	PaymentTypeCash                PaymentType = "cash"
	PaymentTypePrepayment          PaymentType = "prepayment"
	PaymentTypeCredit              PaymentType = "credit"
	PaymentTypeCounterProvisioning PaymentType = "counter_provisioning"
)

// PaymentMethod es el método de cálculo de la posición
type PaymentMethod string

const (
	PaymentMethodPrePaymentFull PaymentMethod = "pre_payment_full"
	PaymentMethodPrePaymentPart PaymentMethod = "pre_payment_part"
	PaymentMethodFullPayment    PaymentMethod = "full_payment"
	PaymentMethodAdvance        PaymentMethod = "advance"
	PaymentMethodCreditPart     PaymentMethod = "credit_part"
	PaymentMethodCreditPay      PaymentMethod = "credit_pay"
	PaymentMethodCredit         PaymentMethod = "credit"
)

// PaymentObject es el objeto del cálculo de la posición
type PaymentObject string

const (
	PaymentObjectProduct              PaymentObject = "product"
	PaymentObjectProductPractical     PaymentObject = "product_practical"
	PaymentObjectWork                 PaymentObject = "work"
	PaymentObjectService              PaymentObject = "service"
	PaymentObjectGamblingBet          PaymentObject = "gambling_bet"
	PaymentObjectGamblingWin          PaymentObject = "gambling_prize"
	PaymentObjectLotteryBet           PaymentObject = "lottery"
	PaymentObjectLotteryWin           PaymentObject = "lottery_prize"
	PaymentObjectIntellectualActivity PaymentObject = "intellectual_activity"
	PaymentObjectPayment              PaymentObject = "payment"
	PaymentObjectAgentCommission      PaymentObject = "agent_commission"
	PaymentObjectComposite            PaymentObject = "composite"
	PaymentObjectPay                  PaymentObject = "pay"
	PaymentObjectOther                PaymentObject = "another"
	PaymentObjectPropertyRight        PaymentObject = "property_right"
	PaymentObjectNonOperating         PaymentObject = "non_operating"
	PaymentObjectInsurance            PaymentObject = "insurance"
	PaymentObjectSalesTax             PaymentObject = "sales_tax"
	PaymentObjectResortFee            PaymentObject = "resort_fee"
	PaymentObjectDeposit              PaymentObject = "deposit"
	PaymentObjectConsumption          PaymentObject = "consumption"
	PaymentObjectCasinoPayment        PaymentObject = "casino_payment"
	PaymentObjectIssueOfMoney         PaymentObject = "payment_of_the_money"
	PaymentObjectExciseWithoutMark    PaymentObject = "athm"
	PaymentObjectExciseWithMark       PaymentObject = "atm"
	PaymentObjectProductWithoutMark   PaymentObject = "thm"
	PaymentObjectProductWithMark      PaymentObject = "tm"
)

// MeasureType es la unidad de medida de la posición
type MeasureType int

const (
	MeasurePiece            MeasureType = 0
	MeasureGram             MeasureType = 10
	MeasureKilogram         MeasureType = 11
	MeasureTon              MeasureType = 12
	MeasureCentimeter       MeasureType = 20
	MeasureDecimeter        MeasureType = 21
	MeasureMeter            MeasureType = 22
	MeasureSquareCentimeter MeasureType = 30
	MeasureSquareDecimeter  MeasureType = 31
	MeasureSquareMeter      MeasureType = 32
	MeasureMilliliter       MeasureType = 40
	MeasureLiter            MeasureType = 41
	MeasureCubicMeter       MeasureType = 42
	MeasureKilowattHour     MeasureType = 50
	MeasureGigacalorie      MeasureType = 51
	MeasureDay              MeasureType = 70
	MeasureHour             MeasureType = 71
	MeasureMinute           MeasureType = 72
	MeasureSecond           MeasureType = 73
	MeasureKilobyte         MeasureType = 80
	MeasureMegabyte         MeasureType = 81
	MeasureGigabyte         MeasureType = 82
	MeasureTerabyte         MeasureType = 83
	MeasureOther            MeasureType = 255
)

// MarkType es el tipo de código de marcado
type MarkType string

const (
	MarkUnknown MarkType = "unknown"
	MarkEAN8    MarkType = "ean8"
	MarkEAN13   MarkType = "ean13"
	MarkITF14   MarkType = "itf14"
	MarkGS10    MarkType = "gs10"
	MarkGS1M    MarkType = "gs1m"
	MarkShort   MarkType = "short"
	MarkFur     MarkType = "fur"
	MarkEGAIS20 MarkType = "egais20"
	MarkEGAIS30 MarkType = "egais30"
)

// AgentType es el tipo de agente de la posición
type AgentType string

const (
	AgentTypeBankPaymentAgent    AgentType = "bank_payment_agent"
	AgentTypeBankPaymentSubagent AgentType = "bank_payment_subagent"
	AgentTypePaymentAgent        AgentType = "payment_agent"
	AgentTypePaymentSubagent     AgentType = "payment_subagent"
	AgentTypeSolicitor           AgentType = "solicitor"
	AgentTypeCommissionaire      AgentType = "commissionaire"
	AgentTypeAgent               AgentType = "agent"
)

// CorrectionType es el tipo de corrección
type CorrectionType string

const (
	CorrectionSelf        CorrectionType = "self"
	CorrectionInstruction CorrectionType = "instruction"
	// CorrectionForced es el nombre de la generación anterior para una corrección por orden
	CorrectionForced CorrectionType = "forced"
)

// EmployeeType es el rol de un empleado
type EmployeeType string

const (
	EmployeeCourier EmployeeType = "courier"
	EmployeeCashier EmployeeType = "cashier"
	EmployeeDriver  EmployeeType = "driver"
)
