package importer

// Accepted header spellings per canonical field, tried in order.
var customerAliases = map[string][]string{
	"customer_name": {"customer_name", "name", "customer", "party_name", "client_name"},
	"tally_name":    {"tally_name", "tally", "tally_ledger", "ledger_name", "customer_code", "code"},
	"gst_no":        {"gst_no", "gstin", "gst", "gst_number"},
	"category":      {"category", "category_name", "group"},
}

var salesAliases = map[string][]string{
	"cust_code":   {"cust_cde", "customer_code", "cust_code", "custcode"},
	"cust_name":   {"cust_name", "customer_name", "client_name", "custname"},
	"inv_date":    {"io_date", "invoice_date", "inv_date", "date", "invoicedate"},
	"invno":       {"invno", "invoice_number", "invoiceno", "invoice_no"},
	"part_code":   {"prod_cde", "prod_cust_no", "part_code", "product_code", "prodcode"},
	"part_name":   {"prod_name_ko", "part_name", "product_name", "prodname"},
	"tariff":      {"tariff_code", "tariff", "hs_code", "tariffcode"},
	"qty":         {"io_qty", "qty", "quantity", "ioqty"},
	"bas_price":   {"rate_pre_unit", "bas_price", "base_price", "unit_price", "ratepreunit"},
	"ass_val":     {"assessable_value", "ass_val", "assessable", "assessablevalue"},
	"c_gst":       {"cgst_amt", "c_gst", "cgst", "cgstamt"},
	"s_gst":       {"sgst_amt", "s_gst", "sgst", "sgstamt"},
	"igst":        {"igst_amt", "igst", "igstamt"},
	"amot":        {"amortisation_cost", "amot", "amortization", "amortisationcost", "total_amorization"},
	"inv_val":     {"total_inv_value", "invoice_total", "grand_total", "inv_val", "totalinvvalue", "grandtotal"},
	"igst_rate":   {"igst_rate", "igst_%", "igstrate"},
	"cgst_rate":   {"cgst_rate", "cgst_%", "cgstrate"},
	"sgst_rate":   {"sgst_rate", "sgst_%", "sgstrate"},
	"re":          {"re", "re_code"},
	"igst_yes_no": {"igst_yes_no", "igst_flag"},
	"percentage":  {"percentage", "gst_rate", "gst_%"},
}
