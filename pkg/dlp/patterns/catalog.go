package patterns

import "github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"

// DefaultSpecs returns the built-in catalog: malicious-script signatures
// followed by the sensitive-entity cascade. Scores reflect specificity;
// labeled variants ("<Label>: <value>") outrank bare ones.
func DefaultSpecs() []Spec {
	specs := make([]Spec, 0, len(scriptSpecs)+len(sensitiveSpecs))
	specs = append(specs, scriptSpecs...)
	specs = append(specs, sensitiveSpecs...)
	return specs
}

var scriptSpecs = []Spec{
	// JavaScript
	{Name: "js_script_tag", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?is)<script[^>]*>.*?</script>`, Score: 0.95, Description: "JavaScript script tag"},
	{Name: "js_protocol", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)javascript\s*:`, Score: 0.9, Description: "JavaScript protocol"},
	{Name: "js_eval", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)eval\s*\(`, Score: 0.9, Description: "JavaScript eval()"},
	{Name: "js_function_ctor", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)Function\s*\(`, Score: 0.85, Description: "JavaScript Function()"},
	{Name: "js_settimeout_string", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?is)setTimeout\s*\(.*?["']`, Score: 0.8, Description: "JavaScript setTimeout with string"},
	{Name: "js_setinterval_string", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?is)setInterval\s*\(.*?["']`, Score: 0.8, Description: "JavaScript setInterval with string"},
	{Name: "js_dom_manipulation", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)document\.(write|writeln|cookie)`, Score: 0.85, Description: "JavaScript DOM manipulation"},
	{Name: "js_window_manipulation", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)window\.(location|open)`, Score: 0.8, Description: "JavaScript window manipulation"},
	{Name: "js_innerhtml", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)innerHTML\s*=`, Score: 0.85, Description: "JavaScript innerHTML injection"},

	// Python
	{Name: "py_exec", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)exec\s*\(`, Score: 0.9, Description: "Python exec()"},
	{Name: "py_import", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)__import__\s*\(`, Score: 0.85, Description: "Python __import__()"},
	{Name: "py_compile", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)compile\s*\(`, Score: 0.8, Description: "Python compile()"},
	{Name: "py_builtins", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)__builtins__`, Score: 0.75, Description: "Python builtins access"},

	// Shell / command injection
	{Name: "sh_bash_c", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)bash\s+-c\s+["']`, Score: 0.9, Description: "Bash command execution"},
	{Name: "sh_sh_c", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)sh\s+-c\s+["']`, Score: 0.9, Description: "Shell command execution"},
	{Name: "sh_cmd_c", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)cmd\s+/c\s+`, Score: 0.9, Description: "Windows CMD execution"},
	{Name: "sh_powershell", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)powershell\s+-Command`, Score: 0.85, Description: "PowerShell execution"},
	{Name: "sh_backticks", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: "`[^`]*`", Score: 0.7, Description: "Backtick command substitution"},
	{Name: "sh_subshell", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `\$\s*\([^)]+\)`, Score: 0.7, Description: "Command substitution $()"},

	// SQL injection
	{Name: "sql_or_1_eq_1", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)'\s*OR\s*['"]?\s*1\s*=\s*1`, Score: 0.95, Description: "SQL injection OR 1=1"},
	{Name: "sql_or_quote", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)'\s*OR\s*['"]?\s*'['"]?\s*=\s*['"]`, Score: 0.9, Description: "SQL injection OR condition"},
	{Name: "sql_union_select", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)UNION\s+SELECT`, Score: 0.95, Description: "SQL UNION SELECT"},
	{Name: "sql_drop_table", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)DROP\s+TABLE`, Score: 0.9, Description: "SQL DROP TABLE"},
	{Name: "sql_delete_from", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)DELETE\s+FROM`, Score: 0.85, Description: "SQL DELETE"},
	{Name: "sql_insert_into", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)INSERT\s+INTO`, Score: 0.8, Description: "SQL INSERT"},
	{Name: "sql_comment", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `;\s*--`, Score: 0.75, Description: "SQL comment injection"},

	// XSS
	{Name: "xss_img_onerror", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)<img[^>]*onerror\s*=`, Score: 0.95, Description: "XSS img onerror"},
	{Name: "xss_img_onload", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)<img[^>]*onload\s*=`, Score: 0.9, Description: "XSS img onload"},
	{Name: "xss_onclick", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)onclick\s*=\s*["']`, Score: 0.9, Description: "XSS onclick"},
	{Name: "xss_onmouseover", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)onmouseover\s*=\s*["']`, Score: 0.85, Description: "XSS onmouseover"},
	{Name: "xss_onfocus", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)onfocus\s*=\s*["']`, Score: 0.85, Description: "XSS onfocus"},
	{Name: "xss_iframe", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)<iframe[^>]*src\s*=`, Score: 0.8, Description: "XSS iframe"},
	{Name: "xss_svg_onload", Type: types.EntityMaliciousScript, Category: CategoryScript,
		Expr: `(?i)<svg[^>]*onload\s*=`, Score: 0.9, Description: "XSS SVG onload"},
}

var sensitiveSpecs = []Spec{
	// Phone numbers
	{Name: "phone_labeled", Type: types.EntityPhoneNumber, Category: CategorySensitive, Labeled: true,
		Expr:        `(?i)(?:Phone|الهاتف|رقم الهاتف)\s*:?\s*([+(]?\d[\d\s\-+()]{5,18}\d)`,
		Score:       0.9,
		Description: "Labeled phone number"},
	{Name: "phone_bare", Type: types.EntityPhoneNumber, Category: CategorySensitive,
		Expr:         `\b(?:\+?\d{1,3}[-.\s]?)?\(?\d{2,4}\)?[-.\s]?\d{2,4}[-.\s]?\d{2,4}(?:[-.\s]?\d{2,7})?\b`,
		Score:        0.8,
		ExcludeValue: `^\d{4}[-.\s]?\d{4}[-.\s]?\d{4}[-.\s]?\d{4}$`,
		Description:  "Standalone phone number"},

	// Email addresses
	{Name: "email", Type: types.EntityEmailAddress, Category: CategorySensitive,
		Expr:        `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`,
		Score:       0.9,
		Description: "Email address"},

	// Credit cards
	{Name: "credit_card_labeled", Type: types.EntityCreditCard, Category: CategorySensitive, Labeled: true,
		Expr:        `(?i)(?:Credit Card|البطاقة|رقم البطاقة)\s*:?[^\n\d]*(\d{4}[-.\s]?\d{4}[-.\s]?\d{4}[-.\s]?\d{4})`,
		Score:       0.85,
		Description: "Labeled credit card number"},
	{Name: "credit_card_bare", Type: types.EntityCreditCard, Category: CategorySensitive,
		Expr:        `\b\d{4}[-.\s]?\d{4}[-.\s]?\d{4}[-.\s]?\d{4}\b`,
		Score:       0.7,
		Description: "Standalone credit card number"},

	// IPv4 addresses
	{Name: "ip_labeled", Type: types.EntityIPAddress, Category: CategorySensitive, Labeled: true,
		Expr:        `(?i)\b(?:IP|الآيبي|عنوان الآيبي)\s*:?\s*((?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?))`,
		Score:       0.9,
		Description: "Labeled IPv4 address"},
	{Name: "ip_bare", Type: types.EntityIPAddress, Category: CategorySensitive,
		Expr:           `\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`,
		Score:          0.85,
		ExcludeContext: `@`,
		ContextWindow:  10,
		Description:    "Standalone IPv4 address"},

	// IBAN codes
	{Name: "iban_labeled", Type: types.EntityIBANCode, Category: CategorySensitive, Labeled: true,
		Expr:        `(?i)\b(?:IBAN|الآيبان|رقم الآيبان)\s*:?\s*([A-Z]{2}\d{2}[A-Z0-9]{11,30})\b`,
		Score:       0.85,
		Description: "Labeled IBAN code"},
	{Name: "iban_bare", Type: types.EntityIBANCode, Category: CategorySensitive,
		Expr:        `\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`,
		Score:       0.75,
		Description: "Standalone IBAN code"},

	// US Social Security numbers
	{Name: "us_ssn", Type: types.EntityUSSSN, Category: CategorySensitive,
		Expr:           `\b\d{3}[-.\s]?\d{2}[-.\s]?\d{4}\b`,
		Score:          0.8,
		ExcludeContext: `\d{4}[-.\s]?\d{2}[-.\s]?\d{2}`,
		ContextWindow:  5,
		Description:    "US Social Security number"},

	// Dates and times
	{Name: "date_labeled", Type: types.EntityDateTime, Category: CategorySensitive, Labeled: true,
		Expr:        `(?i)(?:Date|التاريخ|الوقت)\s*:?\s*([^\n(]{5,50})`,
		Score:       0.85,
		Description: "Labeled date or time"},
	{Name: "date_ar_day_month", Type: types.EntityDateTime, Category: CategorySensitive,
		Expr:        `\b\d{1,2}\s+(?:يناير|فبراير|مارس|أبريل|مايو|يونيو|يوليو|أغسطس|سبتمبر|أكتوبر|نوفمبر|ديسمبر)\s+\d{4}\b`,
		Score:       0.75,
		Description: "Arabic month date"},
	{Name: "date_ar_month_day", Type: types.EntityDateTime, Category: CategorySensitive,
		Expr:        `(?:يناير|فبراير|مارس|أبريل|مايو|يونيو|يوليو|أغسطس|سبتمبر|أكتوبر|نوفمبر|ديسمبر)\s+\d{1,2},?\s+\d{4}\b`,
		Score:       0.75,
		Description: "Arabic month-first date"},
	{Name: "date_dmy", Type: types.EntityDateTime, Category: CategorySensitive,
		Expr:        `\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`,
		Score:       0.75,
		Description: "Numeric day-first date"},
	{Name: "date_ymd", Type: types.EntityDateTime, Category: CategorySensitive,
		Expr:        `\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`,
		Score:       0.75,
		Description: "Numeric year-first date"},
	{Name: "date_en_month_day", Type: types.EntityDateTime, Category: CategorySensitive,
		Expr:        `\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`,
		Score:       0.75,
		Description: "English month-first date"},
	{Name: "date_en_day_month", Type: types.EntityDateTime, Category: CategorySensitive,
		Expr:        `\b\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}\b`,
		Score:       0.75,
		Description: "English day-first date"},
	{Name: "time_of_day", Type: types.EntityDateTime, Category: CategorySensitive,
		Expr:        `\b\d{1,2}:\d{2}(?::\d{2})?\s*(?:AM|PM|am|pm)?\b`,
		Score:       0.75,
		Description: "Time of day"},
	{Name: "datetime", Type: types.EntityDateTime, Category: CategorySensitive,
		Expr:        `\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\s+\d{1,2}:\d{2}(?::\d{2})?\b`,
		Score:       0.75,
		Description: "Combined date and time"},

	// Postal addresses
	{Name: "address_labeled", Type: types.EntityAddress, Category: CategorySensitive, Labeled: true,
		Expr:         `(?i)(?:Address|العنوان)\s*:?\s*([^\n(]{10,100})`,
		Score:        0.85,
		ExcludeValue: `@`,
		Description:  "Labeled address"},
	{Name: "address_keyword", Type: types.EntityAddress, Category: CategorySensitive, Labeled: true,
		Expr:         `(?i)(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|City|State|شارع|طريق|حي|مدينة|مبنى|مكتب)\s*:?\s*([^\n,(]{10,80})`,
		Score:        0.7,
		ExcludeValue: `@|(?:\d{1,3}\.){3}\d{1,3}`,
		Description:  "Keyword-introduced address"},

	// Organizations
	{Name: "org_labeled", Type: types.EntityOrganization, Category: CategorySensitive, Labeled: true,
		Expr:        `(?i)(?:Organization|المنظمة|الشركة)\s*:?\s*([^\n(]{3,80})`,
		Score:       0.85,
		Description: "Labeled organization"},
	{Name: "org_keyword", Type: types.EntityOrganization, Category: CategorySensitive,
		Expr:        `(?i)\b(?:Inc|Corp|LLC|Ltd|Company|Co|Bank|Organization|Org|Corporation)\s+[\p{L}\d][\p{L}\d ]{2,49}|(?:شركة|مؤسسة|بنك|جمعية|هيئة|منظمة)\s+[\p{L}\d][\p{L}\d ]{2,49}`,
		Score:       0.7,
		Description: "Keyword-introduced organization"},

	// Person names
	{Name: "person_labeled_ar", Type: types.EntityPerson, Category: CategorySensitive, Labeled: true,
		Expr:        `(?:Name|اسم)\s*:?\s*(\p{Arabic}{3,15}\s+\p{Arabic}{3,15}(?:\s+\p{Arabic}{3,15}){0,2})`,
		Score:       0.75,
		Description: "Labeled Arabic person name"},
	{Name: "person_labeled_en", Type: types.EntityPerson, Category: CategorySensitive, Labeled: true,
		Expr:        `(?:Name|اسم)\s*:?\s*((?:Mr|Mrs|Ms|Dr|Prof)\.?\s+[A-Z][a-z]+\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`,
		Score:       0.75,
		Description: "Labeled English person name"},
	{Name: "person_title_en", Type: types.EntityPerson, Category: CategorySensitive, Labeled: true,
		Expr:           `\b((?:Mr|Mrs|Ms|Dr|Prof)\.?\s+[A-Z][a-z]+\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`,
		Score:          0.65,
		ExcludeContext: `(?i)email|phone|address|company|شركة|organization|منظمة|@`,
		ContextWindow:  15,
		Description:    "Titled English person name"},
	{Name: "person_bare_en", Type: types.EntityPerson, Category: CategorySensitive, Labeled: true,
		Expr:           `\b([A-Z][a-z]+\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`,
		Score:          0.65,
		ExcludeContext: `(?i)email|phone|address|company|شركة|organization|منظمة|@`,
		ContextWindow:  15,
		Description:    "Bare English person name"},
	{Name: "person_bare_ar", Type: types.EntityPerson, Category: CategorySensitive, Labeled: true,
		Expr:           `(\p{Arabic}{3,15}\s+\p{Arabic}{3,15}(?:\s+\p{Arabic}{3,15}){0,2})`,
		Score:          0.65,
		ExcludeContext: `(?i)email|phone|address|company|شركة|organization|منظمة|@`,
		ContextWindow:  15,
		Description:    "Bare Arabic person name"},

	// Locations
	{Name: "location_labeled", Type: types.EntityLocation, Category: CategorySensitive, Labeled: true,
		Expr:        `(?i)(?:Location|الموقع|المدينة)\s*:?\s*([^\n(]{2,50})`,
		Score:       0.85,
		Description: "Labeled location"},
	{Name: "location_city", Type: types.EntityLocation, Category: CategorySensitive,
		Expr:        `(?i)\b(?:New York|London|Paris|Tokyo|Berlin|Madrid|Rome|Moscow|Dubai|Cairo|Riyadh|Jeddah)\b|(?:الرياض|جدة|دبي|أبوظبي|الكويت|الدوحة|المنامة|بيروت|القاهرة|الإسكندرية|الخرطوم|تونس|الجزائر|الرباط)`,
		Score:       0.7,
		Description: "Known city name"},
}
