package web

import (
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/mjones/baby-raffle-web/internal/raffle-web/api"
	"github.com/mjones/baby-raffle-web/internal/raffle-web/betflow"
)

// Dados passados aos templates de cada página.

type homeData struct {
	Slides []api.SlideshowImage
}

type indexedSelection struct {
	Index      int // posição na lista global do carrinho
	GuessValue string
}

type categoryBlock struct {
	Category    api.Category
	Placeholder string
	Bets        []indexedSelection
}

type bettingData struct {
	Error      string
	Categories []categoryBlock
	Cart       betflow.View
}

type confirmData struct {
	Order *api.SubmitBetsResponse
}

type loginData struct {
	Error string
}

type dashboardData struct {
	Error    string
	Filter   string
	Stats    *api.Stats
	Payments []api.Payment
}

type betsData struct {
	Error          string
	Filter         string
	CountAll       int
	CountValidated int
	CountPending   int
	Bets           []api.Bet
}

type imagesData struct {
	Error  string
	Images []api.SlideshowImage
}

var tmplFuncs = template.FuncMap{
	// "10.00" a partir do valor decimal do backend
	"usd": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	// "10.00" a partir de centavos
	"usdCents": func(cents int64) string { return fmt.Sprintf("%.2f", float64(cents)/100) },
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("template render failed", zap.String("template", name), zap.Error(err))
	}
}

var templates = template.Must(template.New("pages").Funcs(tmplFuncs).Parse(
	layoutHTML + homeHTML + bettingHTML + confirmHTML + adminHTML))

const layoutHTML = `
{{define "head"}}<!DOCTYPE html>
<html lang="en"><head>
<meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.}}</title>
<style>
body{font-family:system-ui,sans-serif;margin:0;background:#fdf2f8;color:#1f2937}
a{color:#db2777}
.wrap{max-width:960px;margin:0 auto;padding:16px}
.card{background:#fff;border:1px solid #fbcfe8;border-radius:12px;padding:20px;margin-bottom:20px}
.btn{display:inline-block;background:#db2777;color:#fff;border:0;border-radius:8px;padding:10px 18px;font-size:15px;cursor:pointer;text-decoration:none}
.btn.secondary{background:#f3f4f6;color:#1f2937}
.btn.danger{background:#fee2e2;color:#b91c1c}
.btn:disabled{opacity:.5;cursor:not-allowed}
.error{background:#fee2e2;border:1px solid #fca5a5;color:#b91c1c;padding:10px 14px;border-radius:8px;margin-bottom:16px}
input[type=text],input[type=email],input[type=tel],input[type=password]{width:100%;box-sizing:border-box;padding:9px;border:1px solid #d1d5db;border-radius:8px;margin:4px 0 12px}
table{width:100%;border-collapse:collapse}
th,td{text-align:left;padding:8px 12px;border-bottom:1px solid #e5e7eb;font-size:14px}
th{color:#6b7280;text-transform:uppercase;font-size:11px}
.tag{padding:2px 10px;border-radius:999px;font-size:12px}
.tag.pending{background:#fef9c3;color:#854d0e}
.tag.validated{background:#dcfce7;color:#166534}
.tag.rejected{background:#fee2e2;color:#b91c1c}
.tabs a{margin-right:8px;padding:8px 14px;border-radius:8px;background:#f3f4f6;color:#1f2937;text-decoration:none}
.tabs a.on{background:#db2777;color:#fff}
.total{font-size:22px;font-weight:700;color:#db2777}
</style>
</head><body><div class="wrap">{{end}}
{{define "foot"}}</div></body></html>{{end}}
`

const homeHTML = `
{{define "home"}}{{template "head" "Baby Raffle"}}
<div class="card" style="position:relative;overflow:hidden;padding:0">
  {{range $i, $s := .Slides}}
  <div class="slide" data-idx="{{$i}}" style="{{if $i}}display:none{{end}}">
    <img src="{{$s.ImageURL}}" alt="{{$s.Caption}}" style="width:100%;display:block">
    {{if $s.Caption}}<p style="text-align:center;margin:8px 0">{{$s.Caption}}</p>{{end}}
  </div>
  {{end}}
</div>
<div class="card" style="text-align:center">
  <h1>Join Us in Welcoming the Baby!</h1>
  <p>Guess the birth date, weight and more. Each bet is $5.00 and the closest guess wins half the pot.</p>
  <a class="btn" href="/betting">Make Your Predictions Now</a>
</div>
<script>
(function(){
  var slides=document.querySelectorAll('.slide');
  if(slides.length<2)return;
  var cur=0;
  // timer preso ao ciclo de vida da página
  var t=setInterval(function(){
    slides[cur].style.display='none';
    cur=(cur+1)%slides.length;
    slides[cur].style.display='';
  },5000);
  window.addEventListener('pagehide',function(){clearInterval(t)});
})();
</script>
{{template "foot"}}{{end}}
`

const bettingHTML = `
{{define "betting"}}{{template "head" "Place Your Bets"}}
<p><a href="/">&larr; Back to Home</a></p>
<h1>Place Your Bets!</h1>
<p>Each bet costs $5.00. Total: <span class="total">${{usdCents .Cart.TotalCents}}</span></p>
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
<form method="post" id="betform">
  {{range .Categories}}
  <div class="card">
    <h2>{{.Category.Name}}</h2>
    <p>{{.Category.Description}}</p>
    <p>Current Pot: <strong>${{usd .Category.CurrentPot}}</strong> &middot; Total Bets: <strong>{{.Category.TotalBets}}</strong></p>
    {{$ph := .Placeholder}}
    {{range .Bets}}
    <div style="display:flex;gap:8px">
      <input type="text" name="guess_{{.Index}}" value="{{.GuessValue}}" placeholder="Your guess (e.g., {{$ph}})">
      <button class="btn danger" formaction="/betting/remove" name="index" value="{{.Index}}">Remove</button>
    </div>
    {{end}}
    <button class="btn secondary" formaction="/betting/add" name="category_id" value="{{.Category.ID}}">Add Bet (+$5.00)</button>
  </div>
  {{end}}
  {{if .Cart.Selections}}
  <div class="card">
    <h2>Your Information</h2>
    <label>Name *</label>
    <input type="text" name="name" value="{{.Cart.Contact.Name}}" placeholder="John Doe">
    <label>Email *</label>
    <input type="email" name="email" value="{{.Cart.Contact.Email}}" placeholder="john@example.com">
    <label>Phone (Optional)</label>
    <input type="tel" name="phone" value="{{.Cart.Contact.Phone}}" placeholder="(555) 123-4567">
  </div>
  {{end}}
  <div class="card" style="text-align:center">
    <button class="btn" id="submitbtn" formaction="/betting/submit"{{if .Cart.Submitting}} disabled{{end}}>
      Review &amp; Submit - ${{usdCents .Cart.TotalCents}}
    </button>
  </div>
</form>
<script>
// evita duplo submit desabilitando o botão enquanto a chamada está em voo
document.getElementById('betform').addEventListener('submit',function(e){
  if(e.submitter && e.submitter.id==='submitbtn'){
    setTimeout(function(){e.submitter.disabled=true},0);
  }
});
</script>
{{template "foot"}}{{end}}
`

const confirmHTML = `
{{define "confirm"}}{{template "head" "Bets Submitted"}}
<div class="card" style="text-align:center">
  <h1>Bets Submitted Successfully!</h1>
  <p>Almost there! Complete your payment to activate your bets.</p>
</div>
<div class="card">
  <h2>Payment Instructions</h2>
  <p>Amount to Send</p>
  <p class="total">${{usd .Order.TotalAmount}}</p>
  <p>Send to</p>
  <p><strong id="venmo">{{.Order.VenmoUsername}}</strong>
    <button class="btn secondary" id="copybtn" type="button">Copy</button></p>
  <p>Payment ID (Reference)</p>
  <p><code>#{{.Order.PaymentID}}</code></p>
</div>
<div class="card">
  <h2>Next Steps</h2>
  <ol>
    <li>Open the Venmo app on your phone</li>
    <li>Send <strong>${{usd .Order.TotalAmount}}</strong> to <strong>{{.Order.VenmoUsername}}</strong></li>
    <li>Include your email and/or payment ID <strong>#{{.Order.PaymentID}}</strong> in the note</li>
    <li>Wait for the admin to validate your payment (usually within 24 hours)</li>
    <li>Your bets are active once the payment is confirmed!</li>
  </ol>
</div>
<p><a class="btn" href="/">Back to Home</a> <a class="btn secondary" href="/betting">Place More Bets</a></p>
<script>
var btn=document.getElementById('copybtn');
btn.addEventListener('click',function(){
  navigator.clipboard.writeText(document.getElementById('venmo').textContent);
  btn.textContent='Copied!';
  setTimeout(function(){btn.textContent='Copy'},2000);
});
</script>
{{template "foot"}}{{end}}

{{define "confirm_missing"}}{{template "head" "No Payment Found"}}
<div class="card" style="text-align:center">
  <p>No payment information found</p>
  <a class="btn" href="/betting">Go to Betting</a>
</div>
{{template "foot"}}{{end}}
`

const adminHTML = `
{{define "login"}}{{template "head" "Admin Login"}}
<div class="card" style="max-width:420px;margin:60px auto">
  <h1>Admin Login</h1>
  {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
  <form method="post" action="/admin/login">
    <label>Username</label>
    <input type="text" name="username" placeholder="admin" required>
    <label>Password</label>
    <input type="password" name="password" required>
    <button class="btn" style="width:100%">Login</button>
  </form>
</div>
{{template "foot"}}{{end}}

{{define "dashboard"}}{{template "head" "Admin Dashboard"}}
<h1>Admin Dashboard</h1>
<p>
  <a class="btn secondary" href="/admin/images">Manage Images</a>
  <a class="btn secondary" href="/admin/bets">All Bets</a>
  <form method="post" action="/admin/logout" style="display:inline"><button class="btn secondary">Logout</button></form>
</p>
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
{{with .Stats}}
<div class="card">
  <p>Total Bets: <strong>{{.Overall.TotalBets}}</strong> &middot;
     Validated Amount: <strong>${{usd .Overall.ValidatedAmount}}</strong> &middot;
     Pending: <strong>{{.Overall.PendingCount}}</strong> (${{usd .Overall.PendingAmount}}) &middot;
     Total Payments: <strong>{{.Overall.TotalPayments}}</strong></p>
  <h2>Category Breakdown</h2>
  <table><tr><th>Category</th><th>Bets</th><th>Pot</th></tr>
  {{range .Categories}}<tr><td>{{.Name}}</td><td>{{.TotalBets}}</td><td>${{usd .PotAmount}}</td></tr>{{end}}
  </table>
</div>
{{end}}
<div class="card">
  <h2>Payments</h2>
  <p class="tabs">
    <a href="/admin/dashboard?status=pending" {{if eq .Filter "pending"}}class="on"{{end}}>Pending</a>
    <a href="/admin/dashboard?status=validated" {{if eq .Filter "validated"}}class="on"{{end}}>Validated</a>
    <a href="/admin/dashboard?status=" {{if eq .Filter ""}}class="on"{{end}}>All</a>
  </p>
  <table>
    <tr><th>ID</th><th>Name</th><th>Email</th><th>Amount</th><th>Bets</th><th>Status</th><th>Actions</th></tr>
    {{$filter := .Filter}}
    {{range .Payments}}
    <tr>
      <td>#{{.ID}}</td><td>{{.UserName}}</td><td>{{.UserEmail}}</td>
      <td>${{usd .TotalAmount}}</td><td>{{.BetCount}}</td>
      <td><span class="tag {{.Status}}">{{.Status}}</span></td>
      <td>
        {{if eq .Status "pending"}}
        <form method="post" action="/admin/payments/{{.ID}}/validate" style="display:inline">
          <input type="hidden" name="filter" value="{{$filter}}">
          <button class="btn" name="status" value="validated">Validate</button>
          <button class="btn danger" name="status" value="rejected">Reject</button>
        </form>
        {{end}}
      </td>
    </tr>
    {{else}}<tr><td colspan="7">No payments found</td></tr>{{end}}
  </table>
</div>
{{template "foot"}}{{end}}

{{define "bets"}}{{template "head" "All Bets"}}
<p><a href="/admin/dashboard">&larr; Dashboard</a></p>
<h1>All Bets</h1>
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
<p class="tabs">
  <a href="/admin/bets?filter=all" {{if eq .Filter "all"}}class="on"{{end}}>All ({{.CountAll}})</a>
  <a href="/admin/bets?filter=validated" {{if eq .Filter "validated"}}class="on"{{end}}>Validated ({{.CountValidated}})</a>
  <a href="/admin/bets?filter=pending" {{if eq .Filter "pending"}}class="on"{{end}}>Pending ({{.CountPending}})</a>
</p>
<div class="card">
  <table>
    <tr><th>Category</th><th>Guess</th><th>User</th><th>Email</th><th>Amount</th><th>Status</th><th>Date</th></tr>
    {{range .Bets}}
    <tr>
      <td>{{.CategoryName}}</td><td>{{.GuessValue}}</td><td>{{.UserName}}</td><td>{{.UserEmail}}</td>
      <td>${{usd .Amount}}</td>
      <td><span class="tag {{.PaymentStatus}}">{{.PaymentStatus}}</span></td>
      <td>{{.CreatedAt}}</td>
    </tr>
    {{else}}<tr><td colspan="7">No bets found</td></tr>{{end}}
  </table>
</div>
{{template "foot"}}{{end}}

{{define "images"}}{{template "head" "Manage Slideshow Images"}}
<p><a href="/admin/dashboard">&larr; Dashboard</a></p>
<h1>Manage Slideshow Images</h1>
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
<div class="card">
  <h2>Upload New Image</h2>
  <form method="post" action="/admin/images" enctype="multipart/form-data">
    <label>Image File</label>
    <input type="file" name="image" accept="image/*" required><br>
    <label>Caption (Optional)</label>
    <input type="text" name="caption" placeholder="Our Greatest Adventure Begins!">
    <button class="btn">Upload Image</button>
  </form>
</div>
<div class="card">
  <h2>Current Images ({{len .Images}})</h2>
  {{range .Images}}
  <div style="border-bottom:1px solid #e5e7eb;padding:12px 0{{if not .IsActive}};opacity:.5{{end}}">
    <img src="{{.ImageURL}}" alt="{{.Caption}}" style="max-height:120px;display:block;margin-bottom:8px">
    <p>{{if .Caption}}{{.Caption}}{{else}}No caption{{end}} &middot;
       Order: {{.DisplayOrder}} &middot; {{if .IsActive}}Active{{else}}Inactive{{end}}</p>
    <form method="post" action="/admin/images/{{.ID}}/toggle" style="display:inline">
      <button class="btn secondary">{{if .IsActive}}Deactivate{{else}}Activate{{end}}</button>
    </form>
    <form method="post" action="/admin/images/{{.ID}}/delete" style="display:inline"
          onsubmit="return confirm('Are you sure you want to delete this image?')">
      <button class="btn danger">Delete</button>
    </form>
  </div>
  {{else}}<p>No images uploaded yet</p>{{end}}
</div>
{{template "foot"}}{{end}}
`
