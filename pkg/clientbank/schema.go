package clientbank

import "fmt"

// SchemaField binds a stable attribute name to its wire field descriptor.
// Attribute names are the keys used on SectionRecord and in the structured
// (JSON) representation; wire keys are what appears in the file.
type SchemaField struct {
	Name  string
	Field Field
}

// Schema is the ordered field list of one record kind. The order is the
// order lines are rendered in; decoding is order-independent. Schemas are
// built once at package init and shared read-only by all records.
type Schema struct {
	Name   string
	Fields []SchemaField

	byName map[string]int
}

// NewSchema builds a schema from an ordered field list. Duplicate
// attribute names are a programming error and panic.
func NewSchema(name string, fields ...SchemaField) *Schema {
	s := &Schema{
		Name:   name,
		Fields: fields,
		byName: make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if _, dup := s.byName[f.Name]; dup {
			panic(fmt.Sprintf("clientbank: schema %s: duplicate attribute %s", name, f.Name))
		}
		s.byName[f.Name] = i
	}
	return s
}

// Field returns the descriptor for an attribute name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i].Field, true
}

// Names returns the attribute names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// The nine wire schemas of 1CClientBankExchange v1.02. Keys are the
// literal Cyrillic labels of the format and must not be translated.
var (
	// HeaderSchema describes the file header: format and version markers,
	// encoding, sender/receiver programs and the data selection filter.
	HeaderSchema = NewSchema("header",
		SchemaField{"format_name", newField("1CClientBankExchange", "Внутренний признак файла обмена", RequiredBoth, TypeFlag)},
		SchemaField{"format_version", newField("ВерсияФормата", "Номер версии формата обмена", RequiredBoth, TypeText)},
		SchemaField{"encoding", newField("Кодировка", "Кодировка файла", RequiredBoth, TypeText)},
		SchemaField{"sender", newField("Отправитель", "Программа-отправитель", RequiredToBank, TypeText)},
		SchemaField{"receiver", newField("Получатель", "Программа-получатель", RequiredFromBank, TypeText)},
		SchemaField{"creation_date", newField("ДатаСоздания", "Дата формирования файла", RequiredNone, TypeDate)},
		SchemaField{"creation_time", newField("ВремяСоздания", "Время формирования файла", RequiredNone, TypeTime)},
		SchemaField{"filter_date_since", newField("ДатаНачала", "Дата начала интервала", RequiredBoth, TypeDate)},
		SchemaField{"filter_date_till", newField("ДатаКонца", "Дата конца интервала", RequiredBoth, TypeDate)},
		SchemaField{"filter_account_numbers", newField("РасчСчет", "Расчетный счет организации", RequiredBoth, TypeArray)},
		SchemaField{"filter_document_types", newField("Документ", "Вид документа", RequiredNone, TypeArray)},
	)

	// BalanceSchema describes the account balance section.
	BalanceSchema = NewSchema("balance",
		SchemaField{"tag_begin", newField("СекцияРасчСчет", "Признак начала секции", RequiredNone, TypeFlag)},
		SchemaField{"date_since", newField("ДатаНачала", "Дата начала интервала", RequiredFromBank, TypeDate)},
		SchemaField{"date_till", newField("ДатаКонца", "Дата конца интервала", RequiredNone, TypeDate)},
		SchemaField{"account_number", newField("РасчСчет", "Расчетный счет организации", RequiredFromBank, TypeText)},
		SchemaField{"initial_balance", newField("НачальныйОстаток", "Начальный остаток", RequiredFromBank, TypeAmount)},
		SchemaField{"total_income", newField("ВсегоПоступило", "Обороты входящих платежей", RequiredNone, TypeAmount)},
		SchemaField{"total_expense", newField("ВсегоСписано", "Обороты исходящих платежей", RequiredNone, TypeAmount)},
		SchemaField{"final_balance", newField("КонечныйОстаток", "Конечный остаток", RequiredNone, TypeAmount)},
		SchemaField{"tag_end", newField("КонецРасчСчет", "Признак окончания секции", RequiredNone, TypeFlag)},
	)

	// DocumentSchema describes a payment document's own head fields. The
	// begin marker doubles as a value line carrying the document type.
	DocumentSchema = NewSchema("document",
		SchemaField{"document_type", newField("СекцияДокумент", "Признак начала секции", RequiredToBank, TypeText)},
		SchemaField{"number", newField("Номер", "Номер документа", RequiredBoth, TypeText)},
		SchemaField{"date", newField("Дата", "Дата документа", RequiredBoth, TypeDate)},
		SchemaField{"amount", newField("Сумма", "Сумма платежа", RequiredBoth, TypeAmount)},
	)

	// ReceiptSchema describes the bank's receipt for a document.
	ReceiptSchema = NewSchema("receipt",
		SchemaField{"date", newField("КвитанцияДата", "Дата формирования квитанции", RequiredNone, TypeDate)},
		SchemaField{"time", newField("КвитанцияВремя", "Время формирования квитанции", RequiredNone, TypeTime)},
		SchemaField{"content", newField("КвитанцияСодержание", "Содержание квитанции", RequiredNone, TypeText)},
	)

	// PayerSchema describes the payer's requisites.
	PayerSchema = NewSchema("payer",
		SchemaField{"account", newField("ПлательщикСчет", "Расчетный счет плательщика", RequiredBoth, TypeText)},
		SchemaField{"date_charged", newField("ДатаСписано", "Дата списания средств с р/с", RequiredFromBank, TypeDate)},
		SchemaField{"name", newField("Плательщик", "Плательщик", RequiredToBank, TypeText)},
		SchemaField{"inn", newField("ПлательщикИНН", "ИНН плательщика", RequiredBoth, TypeText)},
		SchemaField{"l1_name", newField("Плательщик1", "Наименование плательщика, стр. 1", RequiredToBank, TypeText)},
		SchemaField{"l2_account_number", newField("Плательщик2", "Наименование плательщика, стр. 2", RequiredNone, TypeText)},
		SchemaField{"l3_bank", newField("Плательщик3", "Наименование плательщика, стр. 3", RequiredNone, TypeText)},
		SchemaField{"l4_city", newField("Плательщик4", "Наименование плательщика, стр. 4", RequiredNone, TypeText)},
		SchemaField{"account_number", newField("ПлательщикРасчСчет", "Расчетный счет плательщика", RequiredToBank, TypeText)},
		SchemaField{"bank_1_name", newField("ПлательщикБанк1", "Банк плательщика", RequiredToBank, TypeText)},
		SchemaField{"bank_2_city", newField("ПлательщикБанк2", "Город банка плательщика", RequiredToBank, TypeText)},
		SchemaField{"bank_bic", newField("ПлательщикБИК", "БИК банка плательщика", RequiredToBank, TypeText)},
		SchemaField{"bank_corr_account", newField("ПлательщикКорсчет", "Корсчет банка плательщика", RequiredToBank, TypeText)},
	)

	// ReceiverSchema describes the receiver's requisites.
	ReceiverSchema = NewSchema("receiver",
		SchemaField{"account", newField("ПолучательСчет", "Расчетный счет получателя", RequiredBoth, TypeText)},
		SchemaField{"date_received", newField("ДатаПоступило", "Дата поступления средств на р/с", RequiredFromBank, TypeText)},
		SchemaField{"name", newField("Получатель", "Получатель", RequiredToBank, TypeText)},
		SchemaField{"inn", newField("ПолучательИНН", "ИНН получателя", RequiredBoth, TypeText)},
		SchemaField{"l1_name", newField("Получатель1", "Наименование получателя", RequiredToBank, TypeText)},
		SchemaField{"l2_account_number", newField("Получатель2", "Наименование получателя, стр. 2", RequiredNone, TypeText)},
		SchemaField{"l3_bank", newField("Получатель3", "Наименование получателя, стр. 3", RequiredNone, TypeText)},
		SchemaField{"l4_city", newField("Получатель4", "Наименование получателя, стр. 4", RequiredNone, TypeText)},
		SchemaField{"account_number", newField("ПолучательРасчСчет", "Расчетный счет получателя", RequiredToBank, TypeText)},
		SchemaField{"bank_1_name", newField("ПолучательБанк1", "Банк получателя", RequiredToBank, TypeText)},
		SchemaField{"bank_2_city", newField("ПолучательБанк2", "Город банка получателя", RequiredToBank, TypeText)},
		SchemaField{"bank_bic", newField("ПолучательБИК", "БИК банка получателя", RequiredToBank, TypeText)},
		SchemaField{"bank_corr_account", newField("ПолучательКорсчет", "Корсчет банка получателя", RequiredToBank, TypeText)},
	)

	// PaymentSchema describes the payment requisites.
	PaymentSchema = NewSchema("payment",
		SchemaField{"payment_type", newField("ВидПлатежа", "Вид платежа", RequiredNone, TypeText)},
		SchemaField{"operation_type", newField("ВидОплаты", "Вид оплаты (вид операции)", RequiredToBank, TypeText)},
		SchemaField{"code", newField("Код", "Уникальный идентификатор платежа", RequiredNone, TypeText)},
		SchemaField{"purpose", newField("НазначениеПлатежа", "Назначение платежа", RequiredNone, TypeText)},
		SchemaField{"purpose_l1", newField("НазначениеПлатежа1", "Назначение платежа, стр. 1", RequiredNone, TypeText)},
		SchemaField{"purpose_l2", newField("НазначениеПлатежа2", "Назначение платежа, стр. 2", RequiredNone, TypeText)},
		SchemaField{"purpose_l3", newField("НазначениеПлатежа3", "Назначение платежа, стр. 3", RequiredNone, TypeText)},
		SchemaField{"purpose_l4", newField("НазначениеПлатежа4", "Назначение платежа, стр. 4", RequiredNone, TypeText)},
		SchemaField{"purpose_l5", newField("НазначениеПлатежа5", "Назначение платежа, стр. 5", RequiredNone, TypeText)},
		SchemaField{"purpose_l6", newField("НазначениеПлатежа6", "Назначение платежа, стр. 6", RequiredNone, TypeText)},
	)

	// TaxSchema describes the extra requisites of budget payments.
	TaxSchema = NewSchema("tax",
		SchemaField{"originator_status", newField("СтатусСоставителя", "Статус составителя расчетного документа", RequiredBoth, TypeText)},
		SchemaField{"payer_kpp", newField("ПлательщикКПП", "КПП плательщика", RequiredBoth, TypeText)},
		SchemaField{"receiver_kpp", newField("ПолучательКПП", "КПП получателя", RequiredBoth, TypeText)},
		SchemaField{"kbk", newField("ПоказательКБК", "Показатель кода бюджетной классификации", RequiredBoth, TypeText)},
		SchemaField{"okato", newField("ОКАТО", "Код ОКТМО территории, на которой мобилизуются денежные средства", RequiredBoth, TypeText)},
		SchemaField{"basis", newField("ПоказательОснования", "Показатель основания налогового платежа", RequiredBoth, TypeText)},
		SchemaField{"period", newField("ПоказательПериода", "Показатель налогового периода / Код таможенного органа", RequiredBoth, TypeText)},
		SchemaField{"number", newField("ПоказательНомера", "Показатель номера документа", RequiredBoth, TypeText)},
		SchemaField{"date", newField("ПоказательДаты", "Показатель даты документа", RequiredBoth, TypeText)},
		SchemaField{"payment_kind", newField("ПоказательТипа", "Показатель типа платежа", RequiredNone, TypeText)},
	)

	// SpecialSchema describes extra requisites of particular document
	// kinds (acceptance terms, letters of credit).
	SpecialSchema = NewSchema("special",
		SchemaField{"priority", newField("Очередность", "Очередность платежа", RequiredNone, TypeText)},
		SchemaField{"term_of_acceptance", newField("СрокАкцепта", "Срок акцепта, количество дней", RequiredNone, TypeText)},
		SchemaField{"letter_of_credit_type", newField("ВидАккредитива", "Вид аккредитива", RequiredNone, TypeText)},
		SchemaField{"maturity", newField("СрокПлатежа", "Срок платежа (аккредитива)", RequiredNone, TypeText)},
		SchemaField{"payment_condition_1", newField("УсловиеОплаты1", "Условие оплаты, стр. 1", RequiredNone, TypeText)},
		SchemaField{"payment_condition_2", newField("УсловиеОплаты2", "Условие оплаты, стр. 2", RequiredNone, TypeText)},
		SchemaField{"payment_condition_3", newField("УсловиеОплаты3", "Условие оплаты, стр. 3", RequiredNone, TypeText)},
		SchemaField{"by_submission", newField("ПлатежПоПредст", "Платеж по представлению", RequiredNone, TypeText)},
		SchemaField{"extra_conditions", newField("ДополнУсловия", "Дополнительные условия", RequiredNone, TypeText)},
		SchemaField{"supplier_account_number", newField("НомерСчетаПоставщика", "№ счета поставщика", RequiredNone, TypeText)},
		SchemaField{"docs_sent_date", newField("ДатаОтсылкиДок", "Дата отсылки документов", RequiredNone, TypeText)},
	)
)

// subsectionSchemas lists the document subsections in their fixed encode
// order. Subsections have no begin/end markers of their own: they are
// decoded by re-running each schema over the parent document's region,
// which is only sound while no two of these schemas share a wire key.
var subsectionSchemas = []*Schema{
	ReceiptSchema,
	PayerSchema,
	ReceiverSchema,
	PaymentSchema,
	TaxSchema,
	SpecialSchema,
}

func init() {
	assertDisjointKeys(append([]*Schema{DocumentSchema}, subsectionSchemas...))
}

// assertDisjointKeys panics if any wire key appears in more than one of
// the given schemas. Two subsection schemas sharing a key would silently
// cross-populate each other during the shared-region decode, so the
// collision is caught at startup instead.
func assertDisjointKeys(schemas []*Schema) {
	seen := make(map[string]string)
	for _, s := range schemas {
		for _, sf := range s.Fields {
			if prev, ok := seen[sf.Field.Key]; ok {
				panic(fmt.Sprintf("clientbank: wire key %q defined in both %s and %s schemas",
					sf.Field.Key, prev, s.Name))
			}
			seen[sf.Field.Key] = s.Name
		}
	}
}
